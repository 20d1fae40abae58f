package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/philodia/gescom-core/internal/apperrors"
)

// EncodeMovementToken creates an opaque token pointing after the movement with sequence seq.
// The product ID is embedded so a token cannot be replayed against another product.
func EncodeMovementToken(productID string, seq int64) string {
	tokenStr := fmt.Sprintf("%s|%d", productID, seq)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMovementToken parses a token created by EncodeMovementToken for productID.
// Malformed tokens fail with apperrors.ErrValidation.
func DecodeMovementToken(token string, productID string) (int64, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid pagination token format (base64 decode): %v", apperrors.ErrValidation, err)
	}

	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: invalid pagination token format (split)", apperrors.ErrValidation)
	}
	if parts[0] != productID {
		return 0, fmt.Errorf("%w: pagination token belongs to another product", apperrors.ErrValidation)
	}

	seq, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("%w: invalid pagination token format (sequence parse)", apperrors.ErrValidation)
	}
	return seq, nil
}
