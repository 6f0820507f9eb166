package impl

import (
	"testing"

	"taskmasters/internal/domain"
)

func hashToCredential(t *testing.T, p *PasswordServiceImpl, password string) *domain.PasswordCredential {
	t.Helper()
	hash, salt, paramsJSON, algo, ver, err := p.Hash(password)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	return &domain.PasswordCredential{
		Algo:        algo,
		Hash:        hash,
		Salt:        salt,
		ParamsJSON:  paramsJSON,
		PasswordVer: ver,
	}
}

func TestArgon2idHashAndVerify(t *testing.T) {
	p := NewPasswordServiceArgon2id()
	cred := hashToCredential(t, p, "correct horse battery")

	rehash, ok := p.Verify("correct horse battery", cred)
	if !ok {
		t.Fatal("correct password rejected")
	}
	if rehash {
		t.Fatal("fresh hash should not need rehashing")
	}

	if _, ok := p.Verify("wrong password", cred); ok {
		t.Fatal("wrong password accepted")
	}
}

func TestArgon2idRejectsEmptyPassword(t *testing.T) {
	p := NewPasswordServiceArgon2id()
	if _, _, _, _, _, err := p.Hash(""); err == nil {
		t.Fatal("empty password must not hash")
	}
}

func TestArgon2idHashesAreSalted(t *testing.T) {
	p := NewPasswordServiceArgon2id()
	a := hashToCredential(t, p, "same password")
	b := hashToCredential(t, p, "same password")
	if string(a.Hash) == string(b.Hash) {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestArgon2idRehashOnPolicyChange(t *testing.T) {
	old := NewPasswordServiceArgon2id()
	old.cur.Time = 1 // weaker, legacy policy
	cred := hashToCredential(t, old, "secret123")

	current := NewPasswordServiceArgon2id()
	rehash, ok := current.Verify("secret123", cred)
	if !ok {
		t.Fatal("password must still verify under stored params")
	}
	if !rehash {
		t.Fatal("stale params must trigger a rehash")
	}
}

func TestArgon2idRejectsUnknownAlgo(t *testing.T) {
	p := NewPasswordServiceArgon2id()
	cred := hashToCredential(t, p, "secret123")
	cred.Algo = "bcrypt"
	if _, ok := p.Verify("secret123", cred); ok {
		t.Fatal("foreign algorithm must not verify")
	}
}
