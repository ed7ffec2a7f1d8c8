package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/oklog/ulid/v2"
)

// SignaturePrefix is carried verbatim in signature headers and must be
// preserved for interoperability with merchant integrations.
const SignaturePrefix = "sha256="

// MaxAmount is the largest amount the gateway accepts, in XOF.
const MaxAmount = 10_000_000

// Mobile Money numbering plan: country code (+221 Senegal, +225 Côte
// d'Ivoire) followed by 8 digits.
var phoneRegex = regexp.MustCompile(`^\+22[15]\d{8}$`)

// HashAPIKey returns the hex SHA-256 digest of an API key so the plaintext
// never has to be stored. Deterministic and unsalted: keys are high-entropy
// random tokens, not user passwords.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// GenerateAPIKey produces a random token under a human-readable prefix,
// e.g. "pk_test_3f9a...". The random part is 32 hex characters drawn from
// crypto/rand.
func GenerateAPIKey(prefix string) (string, error) {
	if prefix == "" {
		prefix = "pk_test"
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(buf)), nil
}

// GenerateWebhookSignature computes the HMAC-SHA256 of the raw payload under
// the shared secret, in the "sha256=<hex>" form carried by signature headers.
func GenerateWebhookSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return SignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature recomputes the payload signature and compares it to
// the supplied one in constant time, so verification latency does not leak
// how many leading bytes matched.
func VerifyWebhookSignature(payload []byte, signature, secret string) bool {
	expected := GenerateWebhookSignature(payload, secret)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// ValidatePhoneNumber checks a phone number against the regional Mobile
// Money numbering plan. Numbers without the country-code prefix are rejected.
func ValidatePhoneNumber(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// ValidateAmount checks that an amount is strictly positive and does not
// exceed the gateway ceiling.
func ValidateAmount(amount int64) bool {
	return amount > 0 && amount <= MaxAmount
}

// SanitizeString strips angle brackets and quote characters. Defense in
// depth for display contexts only; persistence still uses parameterized
// queries.
func SanitizeString(input string) string {
	r := strings.NewReplacer("<", "", ">", "", "'", "", `"`, "")
	return strings.TrimSpace(r.Replace(input))
}

// GenerateTransactionID returns a prefixed, time-ordered reference such as
// "pay_01HZ3K...". ULIDs embed a millisecond timestamp plus 80 random bits,
// so references sort by creation time and are unique across processes.
func GenerateTransactionID(prefix string) string {
	if prefix == "" {
		prefix = "pay"
	}
	return fmt.Sprintf("%s_%s", prefix, ulid.Make().String())
}

// Obfuscate XORs data with a repeating key and base64-encodes the result.
// This is reversible obfuscation for demo fixtures, not encryption; nothing
// security-sensitive may rely on it.
func Obfuscate(data, key string) string {
	if key == "" {
		return base64.StdEncoding.EncodeToString([]byte(data))
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i++ {
		out[i] = data[i] ^ key[i%len(key)]
	}
	return base64.StdEncoding.EncodeToString(out)
}

// Deobfuscate reverses Obfuscate.
func Deobfuscate(encoded, key string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode data: %w", err)
	}
	if key == "" {
		return string(raw), nil
	}
	out := make([]byte, len(raw))
	for i := 0; i < len(raw); i++ {
		out[i] = raw[i] ^ key[i%len(key)]
	}
	return string(out), nil
}

// MaskPhone hides the middle digits of a phone number for logs,
// e.g. "+221771234567" -> "+221****4567".
func MaskPhone(phone string) string {
	if len(phone) < 8 {
		return "****"
	}
	return phone[:4] + "****" + phone[len(phone)-4:]
}

// MaskAPIKey hides the middle of an API key for logs.
func MaskAPIKey(key string) string {
	if len(key) < 12 {
		return "****"
	}
	return key[:8] + "****" + key[len(key)-4:]
}
