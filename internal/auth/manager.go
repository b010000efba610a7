package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/masc-mcp/masc-mcp/internal/storage"
)

const tokenBytes = 32 // 64 hex characters

// Manager issues and verifies tokens and enforces the role/capability
// matrix against a room's storage.Backend.
type Manager struct {
	backend storage.Backend
}

// NewManager constructs a Manager over backend.
func NewManager(backend storage.Backend) *Manager {
	return &Manager{backend: backend}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CreateToken generates a CSPRNG token, persists its SHA-256 hash under
// agentName/role, and returns the plaintext token once. The plaintext is
// never persisted or logged.
func (m *Manager) CreateToken(agentName string, role Role, ttl time.Duration) (string, error) {
	if _, err := ParseRole(string(role)); err != nil {
		return "", err
	}
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("auth: generating token: %w", err)
	}
	token := hex.EncodeToString(raw)

	cred := Credential{
		TokenHash: hashToken(token),
		AgentName: agentName,
		Role:      role,
		IssuedAt:  time.Now().UTC(),
	}
	if ttl > 0 {
		exp := cred.IssuedAt.Add(ttl)
		cred.ExpiresAt = &exp
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return "", err
	}
	if err := m.backend.Set(credentialKey(cred.TokenHash), data); err != nil {
		return "", err
	}
	return token, nil
}

func credentialKey(hash string) string {
	return "auth:credentials:" + hash
}

// VerifyToken hashes token, looks up the credential in constant time
// relative to the stored hash, and rejects expired credentials.
func (m *Manager) VerifyToken(token string) (Credential, error) {
	hash := hashToken(token)
	data, err := m.backend.Get(credentialKey(hash))
	if err != nil {
		if err == storage.ErrNotFound {
			return Credential{}, ErrInvalidToken
		}
		return Credential{}, err
	}
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return Credential{}, err
	}
	if subtle.ConstantTimeCompare([]byte(cred.TokenHash), []byte(hash)) != 1 {
		return Credential{}, ErrInvalidToken
	}
	if cred.Expired(time.Now().UTC()) {
		return Credential{}, ErrInvalidToken
	}
	return cred, nil
}

// RevokeToken deletes the credential matching token, if any.
func (m *Manager) RevokeToken(token string) error {
	return m.backend.Delete(credentialKey(hashToken(token)))
}

// CheckPermission verifies token and requires its role to hold cap.
func (m *Manager) CheckPermission(token string, cap Capability) (Credential, error) {
	cred, err := m.VerifyToken(token)
	if err != nil {
		return Credential{}, err
	}
	if !HasCapability(cred.Role, cap) {
		return Credential{}, ErrPermissionDenied
	}
	return cred, nil
}

const enabledKey = "auth:enabled"

// EnableAuth turns on enforcement for the room.
func (m *Manager) EnableAuth() error {
	return m.backend.Set(enabledKey, []byte("1"))
}

// DisableAuth turns off enforcement; CheckPermission calls should be
// bypassed by callers when IsEnabled is false.
func (m *Manager) DisableAuth() error {
	return m.backend.Set(enabledKey, []byte("0"))
}

// IsEnabled reports whether auth enforcement is currently on. Defaults to
// disabled when no flag has ever been persisted.
func (m *Manager) IsEnabled() (bool, error) {
	data, err := m.backend.Get(enabledKey)
	if err != nil {
		if err == storage.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return strings.TrimSpace(string(data)) == "1", nil
}
