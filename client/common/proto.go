package common

import (
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Command Type Definition
// --------------------------------------------------------------------------

// CommandType identifies a wire command. The values are the literal strings
// the server expects in the "type" field.
type CommandType string

const (
	CmdUseSpace              CommandType = "USE_SPACE"
	CmdCreateSpace           CommandType = "CREATE_SPACE"
	CmdDeleteSpace           CommandType = "DELETE_SPACE"
	CmdListSpaces            CommandType = "LIST_SPACES"
	CmdPut                   CommandType = "PUT"
	CmdGet                   CommandType = "GET"
	CmdDelete                CommandType = "DELETE"
	CmdInsertVector          CommandType = "INSERT_VECTOR"
	CmdSearchTopK            CommandType = "SEARCH_TOPK"
	CmdRangeSearch           CommandType = "RANGE_SEARCH"
	CmdGetVector             CommandType = "GET_VECTOR"
	CmdCreateUser            CommandType = "CREATE_USER"
	CmdUpdateUserPassword    CommandType = "UPDATE_USER_PASSWORD"
	CmdUpdateUserRole        CommandType = "UPDATE_USER_ROLE"
	CmdUpdateUserPermissions CommandType = "UPDATE_USER_PERMISSIONS"
	CmdDeleteUser            CommandType = "DELETE_USER"
	CmdGetUser               CommandType = "GET_USER"
)

// --------------------------------------------------------------------------
// Payload Types
// --------------------------------------------------------------------------

// Credentials is the untagged handshake payload. It must be the first
// message on every new connection.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User describes a ShibuDB account as carried in administrative requests and
// in the handshake response. Empty optional fields are omitted on the wire.
type User struct {
	Username    string            `json:"username"`
	Password    string            `json:"password,omitempty"`
	Role        string            `json:"role,omitempty"`
	Permissions map[string]string `json:"permissions,omitempty"`
}

// UserRef references an existing account by name (DELETE_USER payload).
type UserRef struct {
	Username string `json:"username"`
}

// Identity is the client-visible view of the authenticated user. It is
// captured once from the handshake response and never mutated afterwards.
type Identity struct {
	Username    string
	Role        string
	Permissions map[string]string
}

// SpaceInfo describes a space as supplied to CREATE_SPACE.
type SpaceInfo struct {
	Name       string
	EngineType string // "key-value" or "vector"
	Dimension  int    // required for vector engines, 0 otherwise
	IndexType  string
	Metric     string
}

// --------------------------------------------------------------------------
// Request Structure
// --------------------------------------------------------------------------

// Request represents a single tagged wire request. Which fields are set
// depends on the command type. Every request carries the username of the
// current identity in the "user" field (empty before authentication).
type Request struct {
	Type CommandType `json:"type"`
	User string      `json:"user"`

	Space      string   `json:"space,omitempty"`       // Used for: space management and space-scoped commands
	Key        string   `json:"key,omitempty"`         // Used for: PUT, GET, DELETE, INSERT_VECTOR, GET_VECTOR
	Value      string   `json:"value,omitempty"`       // Used for: PUT and all vector payloads
	Data       string   `json:"data,omitempty"`        // Used for: DELETE_SPACE (space name), GET_USER (username)
	EngineType string   `json:"engine_type,omitempty"` // Used for: CREATE_SPACE
	IndexType  string   `json:"index_type,omitempty"`  // Used for: CREATE_SPACE
	Metric     string   `json:"metric,omitempty"`      // Used for: CREATE_SPACE
	Dimension  int      `json:"dimension,omitempty"`   // Used for: CREATE_SPACE; carries k for SEARCH_TOPK
	Radius     float64  `json:"radius,omitempty"`      // Used for: RANGE_SEARCH
	NewUser    *User    `json:"new_user,omitempty"`    // Used for: CREATE_USER and UPDATE_USER_* commands
	DeleteUser *UserRef `json:"delete_user,omitempty"` // Used for: DELETE_USER
}

// --------------------------------------------------------------------------
// Request Factory Functions
// --------------------------------------------------------------------------

// NewUseSpaceRequest creates a new USE_SPACE request
func NewUseSpaceRequest(space, user string) *Request {
	return &Request{
		Type:  CmdUseSpace,
		User:  user,
		Space: space,
	}
}

// NewCreateSpaceRequest creates a new CREATE_SPACE request. The dimension
// field is only sent when the space definition carries one.
func NewCreateSpaceRequest(info SpaceInfo, user string) *Request {
	return &Request{
		Type:       CmdCreateSpace,
		User:       user,
		Space:      info.Name,
		EngineType: info.EngineType,
		IndexType:  info.IndexType,
		Metric:     info.Metric,
		Dimension:  info.Dimension,
	}
}

// NewDeleteSpaceRequest creates a new DELETE_SPACE request
func NewDeleteSpaceRequest(space, user string) *Request {
	return &Request{
		Type: CmdDeleteSpace,
		User: user,
		Data: space,
	}
}

// NewListSpacesRequest creates a new LIST_SPACES request
func NewListSpacesRequest(user string) *Request {
	return &Request{
		Type: CmdListSpaces,
		User: user,
	}
}

// NewPutRequest creates a new PUT request
func NewPutRequest(key, value, space, user string) *Request {
	return &Request{
		Type:  CmdPut,
		User:  user,
		Key:   key,
		Value: value,
		Space: space,
	}
}

// NewGetRequest creates a new GET request
func NewGetRequest(key, space, user string) *Request {
	return &Request{
		Type:  CmdGet,
		User:  user,
		Key:   key,
		Space: space,
	}
}

// NewDeleteRequest creates a new DELETE request
func NewDeleteRequest(key, space, user string) *Request {
	return &Request{
		Type:  CmdDelete,
		User:  user,
		Key:   key,
		Space: space,
	}
}

// NewInsertVectorRequest creates a new INSERT_VECTOR request. The vector id
// is sent as a decimal string in the key field, the components as a
// comma-joined decimal string in the value field.
func NewInsertVectorRequest(id int, vector []float64, space, user string) *Request {
	return &Request{
		Type:  CmdInsertVector,
		User:  user,
		Key:   strconv.Itoa(id),
		Value: EncodeVector(vector),
		Space: space,
	}
}

// NewSearchTopKRequest creates a new SEARCH_TOPK request. The protocol
// overloads the dimension field to carry the top-k count.
func NewSearchTopKRequest(vector []float64, k int, space, user string) *Request {
	return &Request{
		Type:      CmdSearchTopK,
		User:      user,
		Value:     EncodeVector(vector),
		Space:     space,
		Dimension: k,
	}
}

// NewRangeSearchRequest creates a new RANGE_SEARCH request
func NewRangeSearchRequest(vector []float64, radius float64, space, user string) *Request {
	return &Request{
		Type:   CmdRangeSearch,
		User:   user,
		Value:  EncodeVector(vector),
		Space:  space,
		Radius: radius,
	}
}

// NewGetVectorRequest creates a new GET_VECTOR request
func NewGetVectorRequest(id int, space, user string) *Request {
	return &Request{
		Type:  CmdGetVector,
		User:  user,
		Key:   strconv.Itoa(id),
		Space: space,
	}
}

// NewCreateUserRequest creates a new CREATE_USER request. The role defaults
// to "user" when unset, matching the server-side default.
func NewCreateUserRequest(newUser User, user string) *Request {
	if newUser.Role == "" {
		newUser.Role = "user"
	}
	return &Request{
		Type:    CmdCreateUser,
		User:    user,
		NewUser: &newUser,
	}
}

// NewUpdateUserPasswordRequest creates a new UPDATE_USER_PASSWORD request
func NewUpdateUserPasswordRequest(username, password, user string) *Request {
	return &Request{
		Type:    CmdUpdateUserPassword,
		User:    user,
		NewUser: &User{Username: username, Password: password},
	}
}

// NewUpdateUserRoleRequest creates a new UPDATE_USER_ROLE request
func NewUpdateUserRoleRequest(username, role, user string) *Request {
	return &Request{
		Type:    CmdUpdateUserRole,
		User:    user,
		NewUser: &User{Username: username, Role: role},
	}
}

// NewUpdateUserPermissionsRequest creates a new UPDATE_USER_PERMISSIONS request
func NewUpdateUserPermissionsRequest(username string, permissions map[string]string, user string) *Request {
	return &Request{
		Type:    CmdUpdateUserPermissions,
		User:    user,
		NewUser: &User{Username: username, Permissions: permissions},
	}
}

// NewDeleteUserRequest creates a new DELETE_USER request
func NewDeleteUserRequest(username, user string) *Request {
	return &Request{
		Type:       CmdDeleteUser,
		User:       user,
		DeleteUser: &UserRef{Username: username},
	}
}

// NewGetUserRequest creates a new GET_USER request
func NewGetUserRequest(username, user string) *Request {
	return &Request{
		Type: CmdGetUser,
		User: user,
		Data: username,
	}
}

// --------------------------------------------------------------------------
// Vector Encoding
// --------------------------------------------------------------------------

// EncodeVector renders a vector as the comma-joined decimal string used on
// the wire. There is no structural array encoding for vectors in the
// protocol. Components are rendered with the shortest exact representation,
// so [1.0, 2.0, 3.0] becomes "1,2,3".
func EncodeVector(vector []float64) string {
	parts := make([]string, len(vector))
	for i, v := range vector {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// ParseVector parses the comma-joined decimal string form back into a
// vector. It is the inverse of EncodeVector.
func ParseVector(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, NewError(ErrQuery, "empty vector")
	}
	parts := strings.Split(s, ",")
	vector := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, NewErrorf(ErrQuery, "invalid vector component %q: %v", part, err)
		}
		vector[i] = v
	}
	return vector, nil
}
