// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// High-level API helpers for parser initialization and event construction.

package yamlcore

import "io"

// NewParser creates a new parser object with its buffers pre-sized and the
// option surface at its defaults.
func NewParser() Parser {
	return Parser{
		raw_buffer:               make([]byte, 0, input_raw_buffer_size),
		buffer:                   make([]byte, 0, input_buffer_size),
		nestingDepthLimit:        defaultNestingDepthLimit,
		allowDuplicateKeys:       true,
		maxAliasesForCollections: defaultMaxAliasesForCollections,
	}
}

// Delete resets a parser object to its zero value.
func (parser *Parser) Delete() {
	*parser = Parser{}
}

// SetParseComments tells the scanner to emit standalone COMMENT tokens and
// the parser to translate them into COMMENT events. Disabled by default.
func (parser *Parser) SetParseComments(enabled bool) {
	parser.parseComments = enabled
}

// SetNestingDepthLimit bounds how deeply block/flow collections may nest
// before the scanner reports an error. Zero means use the built-in default.
func (parser *Parser) SetNestingDepthLimit(limit int) {
	parser.nestingDepthLimit = limit
}

// SetAllowDuplicateKeys records whether a mapping may repeat a key. The
// scanner and parser never consult it; it is carried for the composer
// layer, which sees keys only after this package has tokenized them.
// Enabled by default.
func (parser *Parser) SetAllowDuplicateKeys(allow bool) {
	parser.allowDuplicateKeys = allow
}

// AllowDuplicateKeys reports the duplicate-key setting for downstream
// consumers.
func (parser *Parser) AllowDuplicateKeys() bool {
	return parser.allowDuplicateKeys
}

// SetMaxAliasesForCollections records the alias expansion budget carried
// for the composer layer.
func (parser *Parser) SetMaxAliasesForCollections(max int) {
	parser.maxAliasesForCollections = max
}

// MaxAliasesForCollections reports the alias budget for downstream
// consumers.
func (parser *Parser) MaxAliasesForCollections() int {
	return parser.maxAliasesForCollections
}

// SetAllowRecursiveKeys records whether an anchored collection may be
// aliased inside its own key, carried for the composer layer. Disabled by
// default.
func (parser *Parser) SetAllowRecursiveKeys(allow bool) {
	parser.allowRecursiveKeys = allow
}

// AllowRecursiveKeys reports the recursive-key setting for downstream
// consumers.
func (parser *Parser) AllowRecursiveKeys() bool {
	return parser.allowRecursiveKeys
}

// PeekEvent returns the next event without consuming it. It returns nil
// once the stream end event has been consumed.
func (parser *Parser) PeekEvent() (*Event, error) {
	if !parser.peek_event_valid {
		var ev Event
		err := parser.Parse(&ev)
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		parser.peek_event = ev
		parser.peek_event_valid = true
	}
	return &parser.peek_event, nil
}

// CheckEvent reports whether the next event is one of the given types
// without consuming it. With no arguments it reports whether any event
// remains.
func (parser *Parser) CheckEvent(types ...EventType) (bool, error) {
	ev, err := parser.PeekEvent()
	if err != nil || ev == nil {
		return false, err
	}
	if len(types) == 0 {
		return true, nil
	}
	for _, t := range types {
		if ev.Type == t {
			return true, nil
		}
	}
	return false, nil
}

// NextEvent consumes and returns the next event. It returns nil once the
// stream end event has been consumed.
func (parser *Parser) NextEvent() (*Event, error) {
	var ev Event
	err := parser.Parse(&ev)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// PeekToken returns the next token without consuming it. It returns nil
// once the stream end token has been consumed.
func (parser *Parser) PeekToken() (*Token, error) {
	if parser.stream_end_produced {
		return nil, nil
	}
	return parser.peekToken()
}

// CheckToken reports whether the next token is one of the given types
// without consuming it. With no arguments it reports whether any token
// remains.
func (parser *Parser) CheckToken(types ...TokenType) (bool, error) {
	tok, err := parser.PeekToken()
	if err != nil || tok == nil {
		return false, err
	}
	if len(types) == 0 {
		return true, nil
	}
	for _, t := range types {
		if tok.Type == t {
			return true, nil
		}
	}
	return false, nil
}

// NextToken consumes and returns the next token. It returns nil once the
// stream end token has been consumed.
func (parser *Parser) NextToken() (*Token, error) {
	if parser.stream_end_produced {
		return nil, nil
	}
	tok, err := parser.peekToken()
	if err != nil {
		return nil, err
	}
	out := *tok
	parser.skipToken()
	return &out, nil
}

// NewStreamStartEvent creates a new STREAM-START event.
func NewStreamStartEvent(encoding Encoding) Event {
	return Event{
		Type:     STREAM_START_EVENT,
		encoding: encoding,
	}
}

// NewStreamEndEvent creates a new STREAM-END event.
func NewStreamEndEvent() Event {
	return Event{
		Type: STREAM_END_EVENT,
	}
}

// NewDocumentStartEvent creates a new DOCUMENT-START event.
func NewDocumentStartEvent(version_directive *VersionDirective, tag_directives []TagDirective, implicit bool) Event {
	return Event{
		Type:             DOCUMENT_START_EVENT,
		versionDirective: version_directive,
		tagDirectives:    tag_directives,
		Implicit:         implicit,
	}
}

// NewDocumentEndEvent creates a new DOCUMENT-END event.
func NewDocumentEndEvent(implicit bool) Event {
	return Event{
		Type:     DOCUMENT_END_EVENT,
		Implicit: implicit,
	}
}

// NewAliasEvent creates a new ALIAS event.
func NewAliasEvent(anchor []byte) Event {
	return Event{
		Type:   ALIAS_EVENT,
		Anchor: anchor,
	}
}

// NewScalarEvent creates a new SCALAR event.
func NewScalarEvent(anchor, tag, value []byte, plain_implicit, quoted_implicit bool, style ScalarStyle) Event {
	return Event{
		Type:            SCALAR_EVENT,
		Anchor:          anchor,
		Tag:             tag,
		Value:           value,
		Implicit:        plain_implicit,
		quoted_implicit: quoted_implicit,
		Style:           Style(style),
	}
}

// NewSequenceStartEvent creates a new SEQUENCE-START event.
func NewSequenceStartEvent(anchor, tag []byte, implicit bool, style SequenceStyle) Event {
	return Event{
		Type:     SEQUENCE_START_EVENT,
		Anchor:   anchor,
		Tag:      tag,
		Implicit: implicit,
		Style:    Style(style),
	}
}

// NewSequenceEndEvent creates a new SEQUENCE-END event.
func NewSequenceEndEvent() Event {
	return Event{
		Type: SEQUENCE_END_EVENT,
	}
}

// NewMappingStartEvent creates a new MAPPING-START event.
func NewMappingStartEvent(anchor, tag []byte, implicit bool, style MappingStyle) Event {
	return Event{
		Type:     MAPPING_START_EVENT,
		Anchor:   anchor,
		Tag:      tag,
		Implicit: implicit,
		Style:    Style(style),
	}
}

// NewMappingEndEvent creates a new MAPPING-END event.
func NewMappingEndEvent() Event {
	return Event{
		Type: MAPPING_END_EVENT,
	}
}

// NewCommentEvent creates a new standalone COMMENT event.
func NewCommentEvent(text []byte, kind CommentKind) Event {
	return Event{
		Type:        COMMENT_EVENT,
		CommentText: text,
		CommentKind: kind,
	}
}

// Delete resets an event object to its zero value.
func (e *Event) Delete() {
	*e = Event{}
}
