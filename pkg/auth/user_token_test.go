package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/utpad/utpad/pkg/model"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"), time.Hour)
	user := &model.User{ID: uuid.New(), Username: "dara", IsSuperuser: true}

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if claims.Username != "dara" || !claims.Superuser {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	principal, err := claims.Principal()
	if err != nil {
		t.Fatalf("Principal error: %v", err)
	}
	if principal.ID != user.ID || !principal.IsSuperuser {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestTokenWrongKey(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"), time.Hour)
	other := NewTokenManager([]byte("other-secret"), time.Hour)

	token, err := manager.Generate(&model.User{ID: uuid.New(), Username: "dara"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if _, err := other.Validate(token); err == nil {
		t.Fatal("expected validation to fail with the wrong key")
	}
}

func TestTokenExpired(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"), -time.Minute)

	token, err := manager.Generate(&model.User{ID: uuid.New(), Username: "dara"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if _, err := manager.Validate(token); err == nil {
		t.Fatal("expected validation to fail for an expired token")
	}
}
