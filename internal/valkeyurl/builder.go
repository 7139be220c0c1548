package valkeyurl

import "github.com/akashmaji946/valkeycli/internal/valkeyerrors"

// Builder constructs a ValkeyUrl programmatically instead of round-
// tripping through text. Grounded on original_source/.../valkey_url.rs's
// ValkeyUrlBuilder.
type Builder struct {
	alias          *string
	host           *string
	port           *uint16
	username       *string
	password       *string
	db             *uint32
	kind           *string
	lastConnection *string
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) Alias(v string) *Builder    { b.alias = &v; return b }
func (b *Builder) Host(v string) *Builder     { b.host = &v; return b }
func (b *Builder) Port(v uint16) *Builder     { b.port = &v; return b }
func (b *Builder) Username(v string) *Builder { b.username = &v; return b }
func (b *Builder) Password(v string) *Builder { b.password = &v; return b }
func (b *Builder) DB(v uint32) *Builder       { b.db = &v; return b }
func (b *Builder) Kind(v string) *Builder     { b.kind = &v; return b }
func (b *Builder) LastConnection(v string) *Builder {
	b.lastConnection = &v
	return b
}

// Build finalizes the URL, defaulting Port to 6379 when unset and
// failing if Host was never set.
func (b *Builder) Build() (ValkeyUrl, error) {
	if b.host == nil {
		return ValkeyUrl{}, valkeyerrors.NewInvalidInput("invalid hostname")
	}
	port := defaultPort
	if b.port != nil {
		port = *b.port
	}
	return ValkeyUrl{
		Alias:          b.alias,
		Host:           *b.host,
		Port:           port,
		Username:       b.username,
		Password:       b.password,
		DB:             b.db,
		Kind:           b.kind,
		LastConnection: b.lastConnection,
	}, nil
}
