// Package valkeyurl parses and serializes the connection URL grammar:
//
//	valkey://[username[:password]@]host[:port][/db][|key:value...]
//
// Grounded on original_source/src/utils/valkey/valkey_url.rs: a
// hand-rolled parser (not net/url) because the grammar — optional
// metadata tail, forgiving port/db fallbacks, literal "valkey://" prefix
// — isn't what net/url.Parse implements.
package valkeyurl

import (
	"strconv"
	"strings"

	"github.com/akashmaji946/valkeycli/internal/valkeyerrors"
)

const defaultPort uint16 = 6379

// ValkeyUrl is the parsed form of a connection URL plus its optional
// metadata tail (alias, kind, last-connection timestamp).
type ValkeyUrl struct {
	Alias          *string
	Host           string
	Port           uint16
	Username       *string
	Password       *string
	DB             *uint32
	Kind           *string
	LastConnection *string
}

// Default mirrors the source tool's Default impl: localhost, default
// port, nothing else set.
func Default() ValkeyUrl {
	return ValkeyUrl{Host: "127.0.0.1", Port: defaultPort}
}

// String prints the alias when present, falling back to
// ConnectionString otherwise — the source tool's Display impl.
func (u ValkeyUrl) String() string {
	if u.Alias != nil {
		return *u.Alias
	}
	return u.ConnectionString()
}

// ConnectionString re-serializes the host/port/auth/db fields. It never
// includes the metadata tail, matching spec.md §4.1.
func (u ValkeyUrl) ConnectionString() string {
	var b strings.Builder
	b.WriteString("valkey://")

	if u.Username != nil || u.Password != nil {
		if u.Username != nil {
			b.WriteString(*u.Username)
		}
		if u.Password != nil {
			b.WriteByte(':')
			b.WriteString(*u.Password)
		}
		b.WriteByte('@')
	}

	b.WriteString(u.Host)
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(uint64(u.Port), 10))

	if u.DB != nil {
		b.WriteByte('/')
		b.WriteString(strconv.FormatUint(uint64(*u.DB), 10))
	}

	return b.String()
}

// Address is the host:port pair suitable for net.Dial.
func (u ValkeyUrl) Address() string {
	return u.Host + ":" + strconv.FormatUint(uint64(u.Port), 10)
}

func ptr(s string) *string { return &s }

// Parse parses text as described above. alias, if non-nil, is recorded
// on the result as-is (it is not part of the text grammar).
func Parse(alias *string, text string) (ValkeyUrl, error) {
	var kind *string
	var lastConnection *string

	toParse := text
	if pipeIdx := strings.IndexByte(text, '|'); pipeIdx >= 0 {
		metadataPart := text[pipeIdx+1:]
		for _, metadata := range strings.Split(metadataPart, "|") {
			colonIdx := strings.IndexByte(metadata, ':')
			if colonIdx < 0 {
				continue
			}
			key := metadata[:colonIdx]
			value := metadata[colonIdx+1:]
			switch key {
			case "type":
				kind = ptr(value)
			case "last":
				lastConnection = ptr(formatLastConnection(value))
			}
		}
		toParse = text[:pipeIdx]
	}

	const prefix = "valkey://"
	if !strings.HasPrefix(toParse, prefix) {
		return ValkeyUrl{}, valkeyerrors.NewInvalidInput("URL must start with 'valkey://'")
	}
	trimmed := toParse[len(prefix):]

	var db *uint32
	if slashIdx := strings.IndexByte(trimmed, '/'); slashIdx >= 0 {
		dbStr := strings.TrimSpace(trimmed[slashIdx+1:])
		trimmed = trimmed[:slashIdx]
		if dbStr != "" {
			if n, err := strconv.ParseUint(dbStr, 10, 32); err == nil {
				v := uint32(n)
				db = &v
			}
		}
	}

	var username, password *string
	if atIdx := strings.IndexByte(trimmed, '@'); atIdx >= 0 {
		userinfo := trimmed[:atIdx]
		trimmed = trimmed[atIdx+1:]

		if colonIdx := strings.IndexByte(userinfo, ':'); colonIdx >= 0 {
			userPart := userinfo[:colonIdx]
			passPart := userinfo[colonIdx+1:]
			if userPart != "" {
				username = ptr(userPart)
			}
			if passPart != "" {
				password = ptr(passPart)
			}
		} else if userinfo != "" {
			username = ptr(userinfo)
		}
	}

	host := trimmed
	port := defaultPort
	if colonIdx := strings.LastIndexByte(trimmed, ':'); colonIdx >= 0 {
		portStr := trimmed[colonIdx+1:]
		if n, err := strconv.ParseUint(portStr, 10, 16); err == nil {
			port = uint16(n)
			host = trimmed[:colonIdx]
		}
	}

	return ValkeyUrl{
		Alias:          alias,
		Username:       username,
		Password:       password,
		Host:           host,
		Port:           port,
		DB:             db,
		Kind:           kind,
		LastConnection: lastConnection,
	}, nil
}

// EqualIgnoringMetadata compares two URLs on every field except Kind and
// LastConnection (the metadata tail), used by the roundtrip property in
// spec.md §8: parse(connection_string(u)) must equal u ignoring
// metadata, since ConnectionString never re-serializes it.
func (u ValkeyUrl) EqualIgnoringMetadata(other ValkeyUrl) bool {
	return strPtrEqual(u.Alias, other.Alias) &&
		u.Host == other.Host &&
		u.Port == other.Port &&
		strPtrEqual(u.Username, other.Username) &&
		strPtrEqual(u.Password, other.Password) &&
		uint32PtrEqual(u.DB, other.DB)
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func uint32PtrEqual(a, b *uint32) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
