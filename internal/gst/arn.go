package gst

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const arnAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateARN returns an acknowledgement reference for a filed return:
// "AA" + state code + MMYY of filing + 6 random characters + a check
// character. It is opaque to callers and only guaranteed unique in practice.
func GenerateARN(stateCode string, filedAt time.Time) string {
	if code, ok := StateCode(stateCode); ok {
		stateCode = code
	} else {
		stateCode = "00"
	}
	id := uuid.New()
	var serial strings.Builder
	for i := 0; i < 6; i++ {
		serial.WriteByte(arnAlphabet[int(id[i])%len(arnAlphabet)])
	}
	body := fmt.Sprintf("AA%s%s%s", stateCode, filedAt.Format("0106"), serial.String())
	return body + string(arnCheckChar(body))
}

// ValidARN verifies the structure and check character of an ARN.
func ValidARN(arn string) bool {
	if len(arn) != 15 || !strings.HasPrefix(arn, "AA") {
		return false
	}
	for i := 0; i < len(arn); i++ {
		if strings.IndexByte(arnAlphabet, arn[i]) < 0 {
			return false
		}
	}
	return arnCheckChar(arn[:14]) == arn[14]
}

func arnCheckChar(body string) byte {
	sum := 0
	for i := 0; i < len(body); i++ {
		v := strings.IndexByte(arnAlphabet, body[i])
		factor := 1 + i%2
		p := v * factor
		sum += p/len(arnAlphabet) + p%len(arnAlphabet)
	}
	return arnAlphabet[(len(arnAlphabet)-sum%len(arnAlphabet))%len(arnAlphabet)]
}
