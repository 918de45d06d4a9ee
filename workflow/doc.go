// Package workflow assembles the writer/reviewer report pipeline: a writer
// agent drafts an image security report from scan artifacts, hands the draft
// to a reviewer agent, and the reviewer either publishes the report or sends
// the draft back with feedback. The revision loop is bounded by the runner,
// not by prompt discipline, so a stubborn reviewer cannot ping-pong forever.
package workflow
