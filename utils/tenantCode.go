package utils

import (
	"math/rand"
)

const tenantCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// TenantCodeLength is the length of generated tenant codes.
const TenantCodeLength = 6

// GenerateTenantCode draws a random 6-character uppercase code. Uniqueness
// is enforced by the caller (existence check plus the unique index on
// tenants.code); a collision means redraw, never failure.
func GenerateTenantCode() string {
	code := make([]byte, TenantCodeLength)
	for i := range code {
		code[i] = tenantCodeAlphabet[rand.Intn(len(tenantCodeAlphabet))]
	}
	return string(code)
}
