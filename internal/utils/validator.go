package utils

import (
	"regexp"
)

// check if the username is valid
// 3-20 characters, only letters, numbers and underscores
func IsValidUsername(username string) bool {
	if len(username) < 3 || len(username) > 20 {
		return false
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	return usernameRegex.MatchString(username)
}

// check if the email is valid
func IsValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

// check if the password is valid
// 8-20 characters, at least one letter and one number
func IsValidPassword(password string) bool {
	if len(password) < 8 || len(password) > 20 {
		return false
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`\d`).MatchString(password)

	return hasLetter && hasNumber
}

// IsNumeric 判断字符串是否为纯数字（用于标签筛选值的ID/名称分流）
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	return regexp.MustCompile(`^[0-9]+$`).MatchString(s)
}
