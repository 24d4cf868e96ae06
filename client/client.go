package client

import (
	"sync"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/shibudb-org/shibudb-clients/client/common"
	"github.com/shibudb-org/shibudb-clients/client/transport"
)

var Logger = logger.GetLogger("client")

// Connection is a single link to a ShibuDB server: a transport plus the
// per-connection session state. It is the unit of pooling.
//
// A Connection is safe for concurrent use; a mutex serializes operations so
// that requests and responses stay strictly paired on the wire. Requests
// are never pipelined.
type Connection struct {
	config    common.ClientConfig
	transport transport.ILineTransport
	session   *session
	mu        sync.Mutex
}

// Dial establishes a connection to the server described by the
// configuration. When the configuration carries credentials the connection
// is authenticated before it is returned; an authentication failure closes
// the transport again.
func Dial(config common.ClientConfig) (*Connection, error) {
	return DialTransport(config, transport.NewTCPTransport())
}

// DialTransport is like Dial but connects over the supplied transport.
func DialTransport(config common.ClientConfig, t transport.ILineTransport) (*Connection, error) {
	if err := t.Connect(config); err != nil {
		return nil, err
	}

	c := &Connection{
		config:    config,
		transport: t,
		session:   newSession(),
	}

	if config.Username != "" && config.Password != "" {
		if _, err := c.Authenticate(config.Username, config.Password); err != nil {
			c.Close()
			return nil, err
		}
	}

	return c, nil
}

// --------------------------------------------------------------------------
// Handshake
// --------------------------------------------------------------------------

// Authenticate performs the handshake. It must be the first message on a
// new connection. On success the session stores the identity echoed back by
// the server, falling back to the supplied username when the reply omits
// it. On any non-OK status the session is left unauthenticated and an
// authentication error carrying the server's message is returned.
func (c *Connection) Authenticate(username, password string) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.roundTrip(&common.Credentials{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		msg := resp.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, common.NewErrorf(common.ErrAuthentication, "authentication failed: %s", msg)
	}

	identity := common.Identity{
		Username:    username,
		Permissions: map[string]string{},
	}
	if u := resp.User; u != nil {
		if u.Username != "" {
			identity.Username = u.Username
		}
		identity.Role = u.Role
		if u.Permissions != nil {
			identity.Permissions = u.Permissions
		}
	}

	c.session.authenticated = true
	c.session.identity = identity

	Logger.Infof("authenticated as %s", identity.Username)
	return resp, nil
}

// --------------------------------------------------------------------------
// Space management
// --------------------------------------------------------------------------

// UseSpace selects the working space for subsequent space-scoped commands.
func (c *Connection) UseSpace(space string) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.roundTrip(common.NewUseSpaceRequest(space, c.session.username()))
	if err != nil {
		return nil, err
	}
	if resp.OK() {
		c.session.space = space
		Logger.Infof("switched to space %s", space)
	}
	return resp, nil
}

// CreateSpace creates a new space. For vector engines the definition must
// carry a dimension; for key-value engines it is left at zero and omitted
// on the wire.
func (c *Connection) CreateSpace(info common.SpaceInfo) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.roundTrip(common.NewCreateSpaceRequest(info, c.session.username()))
}

// DeleteSpace deletes a space.
func (c *Connection) DeleteSpace(space string) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.roundTrip(common.NewDeleteSpaceRequest(space, c.session.username()))
}

// ListSpaces lists all spaces visible to the current user.
func (c *Connection) ListSpaces() (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.roundTrip(common.NewListSpacesRequest(c.session.username()))
}

// --------------------------------------------------------------------------
// Key-value operations
// --------------------------------------------------------------------------

// Put stores a key-value pair. An empty space falls back to the selected one.
func (c *Connection) Put(key, value, space string) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, err := c.session.resolveSpace(space)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(common.NewPutRequest(key, value, name, c.session.username()))
}

// Get retrieves the value for a key. The reply carries it in Value.
func (c *Connection) Get(key, space string) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, err := c.session.resolveSpace(space)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(common.NewGetRequest(key, name, c.session.username()))
}

// Delete removes a key-value pair.
func (c *Connection) Delete(key, space string) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, err := c.session.resolveSpace(space)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(common.NewDeleteRequest(key, name, c.session.username()))
}

// --------------------------------------------------------------------------
// Vector operations
// --------------------------------------------------------------------------

// InsertVector stores a vector under a numeric id.
func (c *Connection) InsertVector(id int, vector []float64, space string) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, err := c.session.resolveSpace(space)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(common.NewInsertVectorRequest(id, vector, name, c.session.username()))
}

// SearchTopK returns the k nearest neighbors of the query vector.
func (c *Connection) SearchTopK(vector []float64, k int, space string) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, err := c.session.resolveSpace(space)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(common.NewSearchTopKRequest(vector, k, name, c.session.username()))
}

// RangeSearch returns all vectors within the given radius of the query vector.
func (c *Connection) RangeSearch(vector []float64, radius float64, space string) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, err := c.session.resolveSpace(space)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(common.NewRangeSearchRequest(vector, radius, name, c.session.username()))
}

// GetVector retrieves a vector by id.
func (c *Connection) GetVector(id int, space string) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, err := c.session.resolveSpace(space)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(common.NewGetVectorRequest(id, name, c.session.username()))
}

// --------------------------------------------------------------------------
// User administration (authorization is enforced server-side)
// --------------------------------------------------------------------------

// CreateUser creates a new account.
func (c *Connection) CreateUser(user common.User) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.roundTrip(common.NewCreateUserRequest(user, c.session.username()))
}

// UpdateUserPassword sets a new password for an account.
func (c *Connection) UpdateUserPassword(username, password string) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.roundTrip(common.NewUpdateUserPasswordRequest(username, password, c.session.username()))
}

// UpdateUserRole sets a new role for an account.
func (c *Connection) UpdateUserRole(username, role string) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.roundTrip(common.NewUpdateUserRoleRequest(username, role, c.session.username()))
}

// UpdateUserPermissions replaces the space permissions of an account.
func (c *Connection) UpdateUserPermissions(username string, permissions map[string]string) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.roundTrip(common.NewUpdateUserPermissionsRequest(username, permissions, c.session.username()))
}

// DeleteUser removes an account.
func (c *Connection) DeleteUser(username string) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.roundTrip(common.NewDeleteUserRequest(username, c.session.username()))
}

// GetUser retrieves account information.
func (c *Connection) GetUser(username string) (*common.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.roundTrip(common.NewGetUserRequest(username, c.session.username()))
}

// --------------------------------------------------------------------------
// State accessors
// --------------------------------------------------------------------------

// Authenticated reports whether the handshake has succeeded on this connection.
func (c *Connection) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.authenticated
}

// Identity returns a copy of the current identity.
func (c *Connection) Identity() common.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity := c.session.identity
	perms := make(map[string]string, len(identity.Permissions))
	for k, v := range identity.Permissions {
		perms[k] = v
	}
	identity.Permissions = perms
	return identity
}

// CurrentSpace returns the selected space ("" when none is selected).
func (c *Connection) CurrentSpace() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.space
}

// Close releases the underlying transport. It is idempotent and never fails.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transport.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// roundTrip sends one request and reads one response. The caller must hold
// c.mu so that request/response pairs stay strictly sequential.
func (c *Connection) roundTrip(req interface{}) (*common.Response, error) {
	line, err := common.EncodeRequest(req)
	if err != nil {
		return nil, err
	}
	if err := c.transport.SendLine(line); err != nil {
		return nil, err
	}
	raw, err := c.transport.ReceiveLine()
	if err != nil {
		return nil, err
	}
	return common.DecodeResponse(raw), nil
}
