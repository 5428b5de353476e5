package graph

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	graphql "github.com/graph-gophers/graphql-go"
)

const (
	typeAuthor        = "Author"
	typeReport        = "Report"
	typeUser          = "User"
	typeLoginShortcut = "LoginShortcut"
)

// encodeID builds an opaque global id from a type name and a store key.
func encodeID(typ, key string) graphql.ID {
	return graphql.ID(base64.URLEncoding.EncodeToString([]byte(typ + ":" + key)))
}

// decodeID splits a global id back into type name and store key.
func decodeID(id graphql.ID) (typ, key string, err error) {
	raw, err := base64.URLEncoding.DecodeString(string(id))
	if err != nil {
		return "", "", fmt.Errorf("malformed global id %q", id)
	}

	typ, key, ok := strings.Cut(string(raw), ":")
	if !ok || typ == "" || key == "" {
		return "", "", fmt.Errorf("malformed global id %q", id)
	}
	return typ, key, nil
}

func decodeIntID(id graphql.ID, wantType string) (int64, error) {
	typ, key, err := decodeID(id)
	if err != nil {
		return 0, err
	}
	if typ != wantType {
		return 0, fmt.Errorf("global id %q is not a %s", id, wantType)
	}
	n, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s id %q", wantType, key)
	}
	return n, nil
}

// node is implemented by every resolver reachable through Query.node.
type node interface {
	ID() graphql.ID
}

// nodeResolver adapts a concrete resolver to the Node interface type.
type nodeResolver struct {
	node node
}

func (r *nodeResolver) ID() graphql.ID {
	return r.node.ID()
}

func (r *nodeResolver) ToAuthor() (*authorResolver, bool) {
	a, ok := r.node.(*authorResolver)
	return a, ok
}

func (r *nodeResolver) ToReport() (*reportResolver, bool) {
	rep, ok := r.node.(*reportResolver)
	return rep, ok
}

func (r *nodeResolver) ToUser() (*userResolver, bool) {
	u, ok := r.node.(*userResolver)
	return u, ok
}

func (r *nodeResolver) ToLoginShortcut() (*loginShortcutResolver, bool) {
	s, ok := r.node.(*loginShortcutResolver)
	return s, ok
}
