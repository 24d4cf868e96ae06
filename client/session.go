package client

import (
	"github.com/shibudb-org/shibudb-clients/client/common"
)

// session tracks the client-visible state of one connection: whether the
// handshake succeeded, who the server says we are, and which space is
// selected. A session is owned by exactly one Connection and is only
// touched under that connection's lock, so "which user/space is active" is
// always an inspectable fact rather than ambient shared state.
type session struct {
	authenticated bool
	identity      common.Identity
	space         string
}

func newSession() *session {
	return &session{
		identity: common.Identity{Permissions: map[string]string{}},
	}
}

// resolveSpace picks the effective space for a space-scoped command: the
// explicit name when given, otherwise the session's selected space. When
// neither is available the command must fail locally, without contacting
// the server.
func (s *session) resolveSpace(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if s.space != "" {
		return s.space, nil
	}
	return "", common.NewError(common.ErrQuery, "no space selected: call UseSpace first or pass a space name")
}

// username returns the identity to stamp on outgoing requests. It is the
// empty string before authentication.
func (s *session) username() string {
	return s.identity.Username
}
