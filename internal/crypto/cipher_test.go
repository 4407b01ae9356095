package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	// Each side re-derives the key independently; neither caches it.
	senderKey, err := DeriveConversationKey(testSalt, "u1", "u2")
	require.NoError(t, err)
	receiverKey, err := DeriveConversationKey(testSalt, "u2", "u1")
	require.NoError(t, err)

	plaintext := "see you at the court at 6?"

	sealed, err := EncryptContent(senderKey, plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, sealed)

	opened, err := DecryptContent(receiverKey, sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestEncryptContent_NonDeterministicCiphertext(t *testing.T) {
	key, err := DeriveConversationKey(testSalt, "u1", "u2")
	require.NoError(t, err)

	first, err := EncryptContent(key, "same message")
	require.NoError(t, err)
	second, err := EncryptContent(key, "same message")
	require.NoError(t, err)

	// Fresh nonce per seal.
	assert.NotEqual(t, first, second)
}

func TestDecryptContent_WrongKeyFails(t *testing.T) {
	key, err := DeriveConversationKey(testSalt, "u1", "u2")
	require.NoError(t, err)
	otherKey, err := DeriveConversationKey(testSalt, "u1", "u3")
	require.NoError(t, err)

	sealed, err := EncryptContent(key, "secret")
	require.NoError(t, err)

	_, err = DecryptContent(otherKey, sealed)
	assert.Error(t, err)
}

func TestDecryptContent_TamperedCiphertextFails(t *testing.T) {
	key, err := DeriveConversationKey(testSalt, "u1", "u2")
	require.NoError(t, err)

	sealed, err := EncryptContent(key, "secret")
	require.NoError(t, err)

	flipped := byte('A')
	if sealed[0] == 'A' {
		flipped = 'B'
	}
	tampered := string(flipped) + sealed[1:]
	_, err = DecryptContent(key, tampered)
	assert.Error(t, err)
}

func TestEncryptContent_BadKey(t *testing.T) {
	_, err := EncryptContent("not-hex", "secret")
	assert.Error(t, err)

	_, err = EncryptContent("abcd", "secret") // too short
	assert.Error(t, err)
}

func TestDecryptContent_BadInput(t *testing.T) {
	key, err := DeriveConversationKey(testSalt, "u1", "u2")
	require.NoError(t, err)

	_, err = DecryptContent(key, "!!! not base64 !!!")
	assert.Error(t, err)

	_, err = DecryptContent(key, "c2hvcnQ=") // valid base64, shorter than a nonce
	assert.Error(t, err)
}
