// Package model defines the completion provider contract used by the turn
// engine, plus a deterministic scripted implementation for tests.
//
// A Model receives the active agent's instructions, the transcript so far and
// a menu of callable tools, and returns exactly one Reply: free text, one or
// more tool calls, or both. The request/response exchange is synchronous from
// the engine's viewpoint; network I/O, streaming and retry concerns live in
// the adapter subpackages (openai, anthropic).
package model
