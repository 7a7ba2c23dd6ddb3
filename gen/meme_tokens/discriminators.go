// This file contains the discriminators for accounts and instructions.

package memetokens

// Account discriminators
var (
	Account_TokenMetadata = [8]byte{237, 215, 132, 182, 24, 127, 175, 173}
)

// Instruction discriminators
var (
	Instruction_CreateToken = [8]byte{84, 52, 204, 228, 24, 140, 234, 75}
)
