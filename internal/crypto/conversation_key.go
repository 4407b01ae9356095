package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"matchchat/internal/common"
)

// pairSeparator keeps "ab"+"c" and "a"+"bc" from mixing to the same input.
const pairSeparator = ":"

const conversationChannelPrefix = "private-chat-"

// CanonicalPair orders two participant identifiers lexicographically so every
// derived value is independent of argument order. Both peers canonicalize the
// same way, which is what lets them agree on keys and channel names without
// any coordination.
func CanonicalPair(userA, userB string) (string, string, error) {
	if userA == "" || userB == "" {
		return "", "", fmt.Errorf("%w: participant IDs must be non-empty", common.ErrInvalidInput)
	}
	if userA == userB {
		return "", "", fmt.Errorf("%w: cannot derive a key for a self-conversation", common.ErrInvalidInput)
	}
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA, userB, nil
}

// DeriveConversationKey produces the symmetric key for the unordered pair
// {userA, userB}: sorted pair and application salt mixed through SHA-256,
// rendered as 64 lowercase hex characters. Deterministic and side-effect
// free; the key is always re-derived, never stored.
func DeriveConversationKey(salt, userA, userB string) (string, error) {
	first, second, err := CanonicalPair(userA, userB)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(first + pairSeparator + second + pairSeparator + salt))
	return hex.EncodeToString(sum[:]), nil
}

// ConversationID is the stable identifier that groups the pair's messages in
// the store. Same canonicalization as the key, no secret material mixed in.
func ConversationID(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + "_" + userB
}

// ChannelName names the pair's private realtime channel. Both peers compute
// the identical name, so no directory lookup is needed.
func ChannelName(userA, userB string) string {
	return conversationChannelPrefix + ConversationID(userA, userB)
}
