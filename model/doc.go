// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with text-generation models inside Sidekick.
//
// Core goals:
//   - Unify one-shot, chat and streaming generation behind a single interface
//   - Keep request/response shapes minimal and transport independent
//   - Construct providers from configuration via a registration map, in the
//     manner of database/sql drivers (blank-import the provider package)
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic, Gemini) implement the Model interface
// from this package so higher layers (the orchestrator, discovery engine)
// remain decoupled from vendor SDKs.
package model
