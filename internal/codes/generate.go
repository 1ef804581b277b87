package codes

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// пределы 6-значного кода: [100000, 999999]
var codeRange = big.NewInt(900000)

// Generate возвращает 6-значный код, равномерно распределённый
// по [100000, 999999]. Источник — только crypto/rand; при его отказе
// возвращаем ошибку, а не подменяем источник слабым.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		return "", fmt.Errorf("secure random source: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Format готовит код к показу игроку: "123456" → "123 456".
func Format(code string) string {
	if len(code) != 6 {
		return code
	}
	return code[:3] + " " + code[3:]
}
