// This file contains the program ID.

package memetokens

import solanago "github.com/gagliardetto/solana-go"

// ProgramID is the meme tokens program address.
var ProgramID = solanago.MustPublicKeyFromBase58("838to942ATb6jwyL9fbPxpHk33wfeckvkBhhK9iejhMp")

const ProgramName = "meme_tokens"
