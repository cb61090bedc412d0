package pkg

import "golang.org/x/crypto/bcrypt"

const DefaultSecretCost = 14

// HashSecret bcrypt-hashes a shared secret, such as the entry form token.
func HashSecret(secret string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	return BytesToString(bytes), err
}

func CheckSecretHash(secret, hash string) bool {
	if secret == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
