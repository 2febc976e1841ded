package mongo

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rentalhub/rental-api/internal/core/domain"
)

func TestToIdentity_NormalizesRoles(t *testing.T) {
	oid := primitive.NewObjectID()
	tests := []struct {
		name string
		role any
		want domain.Roles
	}{
		{"single token", "ADMIN", domain.Roles{domain.RoleAdmin}},
		{"array", primitive.A{"USER", "ADMIN"}, domain.Roles{domain.RoleUser, domain.RoleAdmin}},
		{"array with duplicates", primitive.A{"USER", "USER"}, domain.Roles{domain.RoleUser}},
		{"missing", nil, domain.Roles{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := bson.M{"_id": oid, "username": "alice", "password": "secret"}
			if tt.role != nil {
				doc["role"] = tt.role
			}
			id := toIdentity(doc)
			if id.ID != oid.Hex() || id.Username != "alice" {
				t.Fatalf("unexpected identity: %+v", id)
			}
			if !reflect.DeepEqual(id.Roles, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, id.Roles)
			}
		})
	}
}

func TestToIdentity_KeepsOpaqueFieldsWithoutPassword(t *testing.T) {
	doc := bson.M{
		"_id":        int64(12),
		"username":   "bob",
		"password":   "secret",
		"role":       "USER",
		"department": "media",
		"phones":     primitive.A{"123"},
	}
	id := toIdentity(doc)

	if id.ID != "12" {
		t.Fatalf("expected numeric id as string, got %q", id.ID)
	}
	if _, leaked := id.Attributes["password"]; leaked {
		t.Fatalf("password leaked into attributes")
	}
	if id.Attributes["department"] != "media" {
		t.Fatalf("opaque field lost: %+v", id.Attributes)
	}
	if _, ok := id.Attributes["phones"].([]any); !ok {
		t.Fatalf("arrays should be converted to []any, got %T", id.Attributes["phones"])
	}
}

func TestToCatalogItem_CoercesStock(t *testing.T) {
	tests := []struct {
		name  string
		stock any
		want  int
	}{
		{"int32", int32(4), 4},
		{"int64", int64(6), 6},
		{"double", 2.0, 2},
		{"string", "8", 8},
		{"garbage", "lots", 0},
		{"missing", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := bson.M{"_id": "tripod", "name": "Tripod", "total_stock": tt.stock}
			item := toCatalogItem(domain.TableEquipment, doc)
			if item.TotalStock != tt.want || item.ID != "tripod" || item.Table != domain.TableEquipment {
				t.Fatalf("unexpected item: %+v", item)
			}
		})
	}
}

func TestIDFilter(t *testing.T) {
	oid := primitive.NewObjectID()
	if got := idFilter(oid.Hex()); got["_id"] != oid {
		t.Fatalf("expected ObjectID filter, got %v", got)
	}
	if got := idFilter("42"); got["_id"] != int64(42) {
		t.Fatalf("expected integer filter, got %v", got)
	}
	if got := idFilter("room-a"); got["_id"] != "room-a" {
		t.Fatalf("expected string filter, got %v", got)
	}
}
