package domain

import (
	"errors"
	"fmt"
	"regexp"
)

// Namespaces
const (
	NamespaceBip122 = "bip122"
	NamespaceEIP155 = "eip155"
)

var (
	// ErrInvalidChainID is returned when a string is not a namespace:reference pair
	ErrInvalidChainID = errors.New("invalid chain id")

	namespaceRe = regexp.MustCompile(`^[-a-z0-9]{3,8}$`)
	referenceRe = regexp.MustCompile(`^[-_a-zA-Z0-9]{1,32}$`)
)

// ChainID is a parsed CAIP-2 chain identifier.
type ChainID struct {
	Namespace string
	Reference string
}

// ParseChainID splits s into namespace and reference and validates both parts.
func ParseChainID(s string) (ChainID, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != ':' {
			continue
		}
		ns, ref := s[:i], s[i+1:]
		if !namespaceRe.MatchString(ns) || !referenceRe.MatchString(ref) {
			break
		}
		return ChainID{Namespace: ns, Reference: ref}, nil
	}
	return ChainID{}, fmt.Errorf("%w: %q", ErrInvalidChainID, s)
}

// MustParseChainID is like ParseChainID but panics on error.
// Only use it for compile-time constants.
func MustParseChainID(s string) ChainID {
	id, err := ParseChainID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (c ChainID) String() string {
	if c.IsZero() {
		return ""
	}
	return c.Namespace + ":" + c.Reference
}

// IsZero reports whether c is the empty identifier.
func (c ChainID) IsZero() bool {
	return c.Namespace == "" && c.Reference == ""
}

// IsBip122 reports whether c belongs to the bitcoin-family namespace.
func (c ChainID) IsBip122() bool {
	return c.Namespace == NamespaceBip122
}

// MarshalText implements encoding.TextMarshaler.
func (c ChainID) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ChainID) UnmarshalText(b []byte) error {
	id, err := ParseChainID(string(b))
	if err != nil {
		return err
	}
	*c = id
	return nil
}
