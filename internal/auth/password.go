package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword runs bcrypt at the default cost. Hashing happens here,
// before the store insert, never inside a persistence hook.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
