package params

const (
	SecParam = 128
	SecBytes = SecParam / 8

	// BitsRSA is the size of the modulus the attack is demonstrated against.
	BitsRSA  = 8 * SecParam // = 1024
	BytesRSA = BitsRSA / 8  // = 128

	// BitsRSAPrime is the size of each of the two factors of an RSA modulus.
	BitsRSAPrime = BitsRSA / 2 // = 512

	// MinBitsRSA is the smallest modulus KeyGen accepts.
	// Such keys are only useful for fast tests.
	MinBitsRSA = 16

	// E is the public exponent used for all generated keys.
	E = 65537

	// PrimalityIterations is the number of Miller-Rabin rounds used when checking primality.
	//
	// 20 is the same number that Go uses internally.
	PrimalityIterations = 20
)
