package helpers

const (
	// AccountKeyPool is the account key for liquidity pool accounts
	AccountKeyPool = "Pool"
	// EventKeySwap is the event key for swap events
	EventKeySwap = "EvtSwap"

	DiscriminatorSize = 8
	PubkeySize        = 32
)

var (
	// sha256("account:Pool")[:8]
	PoolDiscriminator = [DiscriminatorSize]byte{241, 154, 109, 4, 17, 177, 109, 188}
	// sha256("event:EvtSwap")[:8]
	EvtSwapDiscriminator = [DiscriminatorSize]byte{27, 60, 21, 213, 138, 170, 187, 147}
)
