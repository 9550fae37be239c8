package dammv2

import (
	"bytes"
	"encoding/binary"

	solanago "github.com/gagliardetto/solana-go"
)

// getFirstKey returns the lexicographically larger key bytes.
func getFirstKey(key1, key2 solanago.PublicKey) []byte {
	buf1 := key1.Bytes()
	buf2 := key2.Bytes()
	if bytes.Compare(buf1, buf2) == 1 {
		return buf1
	}
	return buf2
}

// getSecondKey returns the lexicographically smaller key bytes.
func getSecondKey(key1, key2 solanago.PublicKey) []byte {
	buf1 := key1.Bytes()
	buf2 := key2.Bytes()
	if bytes.Compare(buf1, buf2) == 1 {
		return buf2
	}
	return buf1
}

func DeriveConfigAddress(index uint64) (solanago.PublicKey, error) {
	indexBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(indexBytes, index)
	pub, _, err := solanago.FindProgramAddress([][]byte{[]byte("config"), indexBytes}, CpAmmProgramID)
	return pub, err
}

// DerivePoolAddress is independent of the order the two mints are passed in.
func DerivePoolAddress(config, tokenAMint, tokenBMint solanago.PublicKey) (solanago.PublicKey, error) {
	pub, _, err := solanago.FindProgramAddress([][]byte{
		[]byte("pool"),
		config.Bytes(),
		getFirstKey(tokenAMint, tokenBMint),
		getSecondKey(tokenAMint, tokenBMint),
	}, CpAmmProgramID)
	return pub, err
}

func DeriveCustomizablePoolAddress(tokenAMint, tokenBMint solanago.PublicKey) (solanago.PublicKey, error) {
	pub, _, err := solanago.FindProgramAddress([][]byte{
		[]byte("cpool"),
		getFirstKey(tokenAMint, tokenBMint),
		getSecondKey(tokenAMint, tokenBMint),
	}, CpAmmProgramID)
	return pub, err
}
