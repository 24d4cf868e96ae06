// Package client implements the ShibuDB client connection.
//
// A Connection combines a line transport with per-connection session state
// (authentication, identity, selected space) and exposes one method per
// server command: the handshake, space management, key-value and vector
// operations, and user administration.
//
// Usage Example:
//
//	config := common.DefaultClientConfig()
//	config.Username = "admin"
//	config.Password = "admin"
//
//	conn, err := client.Dial(config)
//	if err != nil {
//		// handle error
//	}
//	defer conn.Close()
//
//	conn.UseSpace("main")
//	conn.Put("mykey", "myvalue", "")
//	resp, _ := conn.Get("mykey", "")
//	fmt.Println(resp.Value)
//
// Error Handling:
//
// All methods return *common.Error values classified by kind: connection
// errors on dial, authentication errors on a rejected handshake, query
// errors on transport failures and on locally detected precondition
// failures such as a missing space selection. A reply whose status is not
// "OK" is not an error by itself; callers inspect Response.Status.
//
// Thread Safety:
//
// A Connection serializes its operations internally, so it can be shared
// between goroutines; requests on one connection never interleave on the
// wire. For concurrent workloads prefer the pool package, which hands out
// exclusively owned connections.
package client
