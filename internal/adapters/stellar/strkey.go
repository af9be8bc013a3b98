package stellar

import (
	"github.com/stellar/go/keypair"
)

// accountFromSeed derives the G... address of an S... secret seed without
// handing the secret to a child process.
func accountFromSeed(seed string) (string, error) {
	kp, err := keypair.ParseFull(seed)
	if err != nil {
		return "", err
	}
	return kp.Address(), nil
}
