package domain

import "errors"

var (
	// ErrUserNotFound is returned when a user lookup finds nothing
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned when registering a wallet address that is taken
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrNFTNotFound is returned when an NFT lookup finds nothing
	ErrNFTNotFound = errors.New("nft not found")

	// ErrPriceChanged is returned when the price the buyer saw no longer matches
	// the stored price
	ErrPriceChanged = errors.New("price changed")

	// ErrNFTNotListed is returned when purchasing an NFT that is not for sale
	ErrNFTNotListed = errors.New("nft not listed for sale")

	// ErrBuyerIsOwner is returned when the buyer already owns the NFT
	ErrBuyerIsOwner = errors.New("buyer already owns this nft")

	// ErrChallengeNotFound is returned when no challenge exists for a wallet
	ErrChallengeNotFound = errors.New("challenge not found")

	// ErrChallengeExpired is returned when a challenge is past its TTL
	ErrChallengeExpired = errors.New("challenge expired")

	// ErrChallengeConsumed is returned when a challenge was already used
	ErrChallengeConsumed = errors.New("challenge already consumed")

	// ErrSignatureMismatch is returned when a signature does not recover to the
	// claimed wallet address
	ErrSignatureMismatch = errors.New("signature does not match wallet address")

	// ErrVerificationNotFound is returned when an artist verification lookup finds nothing
	ErrVerificationNotFound = errors.New("artist verification not found")

	// ErrVerificationExists is returned when a user already has an open or
	// approved verification
	ErrVerificationExists = errors.New("artist verification already exists")

	// ErrVerificationClosed is returned when reviewing a verification that is
	// no longer pending
	ErrVerificationClosed = errors.New("artist verification already reviewed")

	// ErrMissingHederaAccount is returned when an operation needs a Hedera
	// account id the user has not supplied yet
	ErrMissingHederaAccount = errors.New("hedera account id not set")

	// ErrUserDeactivated is returned when a deactivated account tries to sign in
	ErrUserDeactivated = errors.New("user account is deactivated")
)
