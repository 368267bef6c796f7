// internal/blockchain/computebudget/computebudget.go
package computebudget

import (
	"bytes"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/blockchain"
)

var ProgramID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

const (
	RequestUnitsDeprecated uint8 = 0
	RequestHeapFrame       uint8 = 1
	SetComputeUnitLimit    uint8 = 2
	SetComputeUnitPrice    uint8 = 3
)

// Структуры инструкций
type SetComputeUnitLimitInstruction struct {
	Units uint32
}

type SetComputeUnitPriceInstruction struct {
	MicroLamports uint64
}

// DefaultUnits is the compute unit limit paired with a unit price when no
// explicit limit is configured.
const DefaultUnits uint32 = 200_000

// BuildPriorityFeeInstructions создает инструкции compute budget.
// Каждая инструкция добавляется только если соответствующее поле задано.
func BuildPriorityFeeInstructions(fee blockchain.PriorityFee) []solana.Instruction {
	var instructions []solana.Instruction

	if fee.UnitLimit != nil {
		instructions = append(instructions, (&SetComputeUnitLimitInstruction{Units: *fee.UnitLimit}).Build())
	}
	if fee.UnitPrice != nil {
		instructions = append(instructions, (&SetComputeUnitPriceInstruction{MicroLamports: *fee.UnitPrice}).Build())
	}

	return instructions
}

// Build создает инструкцию для установки лимита compute units
func (instr *SetComputeUnitLimitInstruction) Build() solana.Instruction {
	buf := new(bytes.Buffer)
	buf.WriteByte(SetComputeUnitLimit)
	_ = binary.Write(buf, binary.LittleEndian, instr.Units)
	return solana.NewInstruction(ProgramID, []*solana.AccountMeta{}, buf.Bytes())
}

// Build создает инструкцию для установки цены compute units
func (instr *SetComputeUnitPriceInstruction) Build() solana.Instruction {
	buf := new(bytes.Buffer)
	buf.WriteByte(SetComputeUnitPrice)
	_ = binary.Write(buf, binary.LittleEndian, instr.MicroLamports)
	return solana.NewInstruction(ProgramID, []*solana.AccountMeta{}, buf.Bytes())
}
