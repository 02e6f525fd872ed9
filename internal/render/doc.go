// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render converts the backend's semi-trusted markup (reports and
// answers) into a typed fragment tree. Escaping runs before every other
// rule and text inside the tree is stored already escaped, so serializing
// a fragment can never emit live markup from the input. The supported
// subset: headers (#{1,4}), strong/emphasis, fenced and inline code,
// [label](url) links, horizontal rules, bullet and numbered lists,
// blank-line paragraphs.
package render
