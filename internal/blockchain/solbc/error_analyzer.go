// internal/blockchain/solbc/error_analyzer.go
package solbc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// AnchorError represents an error from Anchor framework
type AnchorError struct {
	Code int    `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg"`
}

// SimulationError is returned when preflight simulation rejects a transaction.
type SimulationError struct {
	Message     string
	Logs        []string
	Anchor      *AnchorError
	Instruction interface{}
}

func (e *SimulationError) Error() string {
	if e.Anchor != nil {
		return fmt.Sprintf("transaction simulation failed: %s (%d): %s", e.Anchor.Name, e.Anchor.Code, e.Anchor.Msg)
	}
	return fmt.Sprintf("transaction simulation failed: %s", e.Message)
}

// AnalyzeSendError extracts simulation details from a sendTransaction error.
// It returns nil for errors that are not simulation failures.
func AnalyzeSendError(err error) *SimulationError {
	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return nil
	}
	if !strings.Contains(rpcErr.Message, "Transaction simulation failed") {
		return nil
	}

	result := &SimulationError{Message: rpcErr.Message}

	dataMap, ok := rpcErr.Data.(map[string]interface{})
	if !ok {
		return result
	}
	if logs, ok := dataMap["logs"].([]interface{}); ok {
		for _, entry := range logs {
			line, ok := entry.(string)
			if !ok {
				continue
			}
			result.Logs = append(result.Logs, line)
			if result.Anchor == nil && strings.Contains(line, "AnchorError occurred") {
				anchorErr := parseAnchorErrorLog(line)
				result.Anchor = &anchorErr
			}
		}
	}
	if instrErr, ok := dataMap["err"]; ok {
		result.Instruction = instrErr
	}
	return result
}

// parseAnchorErrorLog parses an Anchor error log string
// Example: "Program log: AnchorError occurred. Error Code: InstructionFallbackNotFound. Error Number: 101. Error Message: Fallback functions are not supported."
func parseAnchorErrorLog(logStr string) AnchorError {
	result := AnchorError{}

	if _, after, ok := strings.Cut(logStr, "Error Number:"); ok {
		num, _, _ := strings.Cut(after, ".")
		fmt.Sscanf(strings.TrimSpace(num), "%d", &result.Code)
	}

	if _, after, ok := strings.Cut(logStr, "Error Code:"); ok {
		name, _, _ := strings.Cut(after, ".")
		result.Name = strings.TrimSpace(name)
	}

	if _, after, ok := strings.Cut(logStr, "Error Message:"); ok {
		result.Msg = strings.TrimSuffix(strings.TrimSpace(after), ".")
	}

	return result
}
