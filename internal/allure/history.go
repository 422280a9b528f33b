package allure

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HistoryID derives the stable cross-run linking key for a test case. It is
// a pure function of the (target, case) pair; the renderer uses it to
// correlate results for the same logical test across reports. The exact
// digest value is not an external contract, only its determinism is.
func HistoryID(testTargetID, testCaseID string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s", testTargetID, testCaseID)))
	return hex.EncodeToString(sum[:])
}
