package utils

import "golang.org/x/crypto/bcrypt"

// 固定 cost=10，与既有存量哈希保持一致
const bcryptCost = 10

func HashPassword(pw string) string {
	b, _ := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	return string(b)
}

// CheckPassword bcrypt 内部为恒定时间比较
func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
