package common

import (
	"encoding/json"
	"reflect"
	"testing"
)

// marshalToMap renders a request the way the wire sees it
func marshalToMap(t *testing.T, req *Request) map[string]interface{} {
	t.Helper()

	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("failed to unmarshal request: %v", err)
	}
	return m
}

func TestRequestFactories(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
		want map[string]interface{}
	}{
		{
			name: "UseSpace",
			req:  NewUseSpaceRequest("main", "admin"),
			want: map[string]interface{}{
				"type": "USE_SPACE", "space": "main", "user": "admin",
			},
		},
		{
			name: "CreateSpace key-value omits dimension",
			req: NewCreateSpaceRequest(SpaceInfo{
				Name: "kv", EngineType: "key-value", IndexType: "Flat", Metric: "L2",
			}, "admin"),
			want: map[string]interface{}{
				"type": "CREATE_SPACE", "space": "kv", "user": "admin",
				"engine_type": "key-value", "index_type": "Flat", "metric": "L2",
			},
		},
		{
			name: "CreateSpace vector carries dimension",
			req: NewCreateSpaceRequest(SpaceInfo{
				Name: "vec", EngineType: "vector", Dimension: 128, IndexType: "Flat", Metric: "L2",
			}, "admin"),
			want: map[string]interface{}{
				"type": "CREATE_SPACE", "space": "vec", "user": "admin",
				"engine_type": "vector", "index_type": "Flat", "metric": "L2",
				"dimension": float64(128),
			},
		},
		{
			name: "DeleteSpace uses data field",
			req:  NewDeleteSpaceRequest("old", "admin"),
			want: map[string]interface{}{
				"type": "DELETE_SPACE", "data": "old", "user": "admin",
			},
		},
		{
			name: "ListSpaces",
			req:  NewListSpacesRequest("admin"),
			want: map[string]interface{}{
				"type": "LIST_SPACES", "user": "admin",
			},
		},
		{
			name: "Put",
			req:  NewPutRequest("k", "v", "main", "admin"),
			want: map[string]interface{}{
				"type": "PUT", "key": "k", "value": "v", "space": "main", "user": "admin",
			},
		},
		{
			name: "Get",
			req:  NewGetRequest("k", "main", "admin"),
			want: map[string]interface{}{
				"type": "GET", "key": "k", "space": "main", "user": "admin",
			},
		},
		{
			name: "InsertVector encodes id and components as strings",
			req:  NewInsertVectorRequest(1, []float64{1.0, 2.0, 3.0}, "vec", "admin"),
			want: map[string]interface{}{
				"type": "INSERT_VECTOR", "key": "1", "value": "1,2,3", "space": "vec", "user": "admin",
			},
		},
		{
			name: "SearchTopK carries k in dimension",
			req:  NewSearchTopKRequest([]float64{0.5, -1.25}, 5, "vec", "admin"),
			want: map[string]interface{}{
				"type": "SEARCH_TOPK", "value": "0.5,-1.25", "space": "vec", "user": "admin",
				"dimension": float64(5),
			},
		},
		{
			name: "RangeSearch carries radius",
			req:  NewRangeSearchRequest([]float64{1, 2}, 2.5, "vec", "admin"),
			want: map[string]interface{}{
				"type": "RANGE_SEARCH", "value": "1,2", "space": "vec", "user": "admin",
				"radius": float64(2.5),
			},
		},
		{
			name: "GetVector",
			req:  NewGetVectorRequest(42, "vec", "admin"),
			want: map[string]interface{}{
				"type": "GET_VECTOR", "key": "42", "space": "vec", "user": "admin",
			},
		},
		{
			name: "CreateUser nests payload and defaults the role",
			req:  NewCreateUserRequest(User{Username: "bob", Password: "pw"}, "admin"),
			want: map[string]interface{}{
				"type": "CREATE_USER", "user": "admin",
				"new_user": map[string]interface{}{
					"username": "bob", "password": "pw", "role": "user",
				},
			},
		},
		{
			name: "UpdateUserPassword nests only username and password",
			req:  NewUpdateUserPasswordRequest("bob", "secret", "admin"),
			want: map[string]interface{}{
				"type": "UPDATE_USER_PASSWORD", "user": "admin",
				"new_user": map[string]interface{}{
					"username": "bob", "password": "secret",
				},
			},
		},
		{
			name: "UpdateUserRole",
			req:  NewUpdateUserRoleRequest("bob", "admin", "root"),
			want: map[string]interface{}{
				"type": "UPDATE_USER_ROLE", "user": "root",
				"new_user": map[string]interface{}{
					"username": "bob", "role": "admin",
				},
			},
		},
		{
			name: "UpdateUserPermissions",
			req:  NewUpdateUserPermissionsRequest("bob", map[string]string{"main": "rw"}, "root"),
			want: map[string]interface{}{
				"type": "UPDATE_USER_PERMISSIONS", "user": "root",
				"new_user": map[string]interface{}{
					"username": "bob", "permissions": map[string]interface{}{"main": "rw"},
				},
			},
		},
		{
			name: "DeleteUser nests under delete_user",
			req:  NewDeleteUserRequest("bob", "root"),
			want: map[string]interface{}{
				"type": "DELETE_USER", "user": "root",
				"delete_user": map[string]interface{}{"username": "bob"},
			},
		},
		{
			name: "GetUser uses data field",
			req:  NewGetUserRequest("bob", "root"),
			want: map[string]interface{}{
				"type": "GET_USER", "data": "bob", "user": "root",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := marshalToMap(t, tt.req)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("request doesn't match:\ngot:  %+v\nwant: %+v", got, tt.want)
			}
		})
	}
}

func TestRequestAlwaysCarriesUserField(t *testing.T) {
	// The user field must be present even before authentication, when it is
	// still the empty string.
	got := marshalToMap(t, NewListSpacesRequest(""))
	if _, ok := got["user"]; !ok {
		t.Errorf("request is missing the user field: %+v", got)
	}
}

func TestHandshakeHasNoCommandTag(t *testing.T) {
	b, err := json.Marshal(&Credentials{Username: "admin", Password: "pw"})
	if err != nil {
		t.Fatalf("failed to marshal handshake: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("failed to unmarshal handshake: %v", err)
	}
	want := map[string]interface{}{"username": "admin", "password": "pw"}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("handshake doesn't match:\ngot:  %+v\nwant: %+v", m, want)
	}
}

func TestEncodeVector(t *testing.T) {
	tests := []struct {
		name   string
		vector []float64
		want   string
	}{
		{"whole numbers render without decimals", []float64{1.0, 2.0, 3.0}, "1,2,3"},
		{"fractions keep their shortest form", []float64{0.5, -1.25}, "0.5,-1.25"},
		{"single component", []float64{3.14159}, "3.14159"},
		{"empty vector", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeVector(tt.vector); got != tt.want {
				t.Errorf("EncodeVector(%v) = %q, want %q", tt.vector, got, tt.want)
			}
		})
	}
}

func TestParseVector(t *testing.T) {
	got, err := ParseVector("1, 2.5 ,-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1, 2.5, -3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseVector = %v, want %v", got, want)
	}

	if _, err := ParseVector(""); err == nil {
		t.Error("expected an error for an empty vector string")
	}
	if _, err := ParseVector("1,abc"); err == nil {
		t.Error("expected an error for a non-numeric component")
	}
}
