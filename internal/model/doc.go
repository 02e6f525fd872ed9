// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package model defines the session transcript data structures.

A Conversation owns the ordered sequence of Messages exchanged in one
session, the opaque conversation identifier assigned by the backend, and
the AwaitingResponse single-flight guard. Messages are immutable once
created; the transcript is append-only except for the explicit Clear
operation.

The model package has no knowledge of the network or the presentation
layer. Pipelines in internal/session mutate the conversation; everything
else reads snapshots.
*/
package model
