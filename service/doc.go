// Package service is the platform boundary around the report pipeline: job
// lookup in PostgreSQL, credential resolution, workflow execution and the
// HTTP surface that triggers runs and serves the produced artifacts.
package service
