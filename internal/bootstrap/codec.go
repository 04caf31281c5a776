package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/HARI5KRISHNAN/darevel-sub005/config"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/adapters/jwtcodec"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/data/cryptoutil"
)

// BuildCodec creates the session codec shared by the broker and verifying gates.
// Tokens are always signed; they are also sealed with AES-GCM when an encryption key is configured.
func BuildCodec(cfg config.SessionConfig, logger *slog.Logger) (*jwtcodec.Codec, error) {
	var enc cryptoutil.Encryptor
	if cfg.EncryptionKey != "" {
		aead, err := createAESGCMEncryptor(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("create session encryptor: %w", err)
		}
		enc = aead
	} else if logger != nil {
		logger.Info("session encryption key not set, tokens are signed only")
	}

	codec, err := jwtcodec.New(jwtcodec.Config{
		Secret:    []byte(cfg.Secret),
		Issuer:    cfg.Issuer,
		Encryptor: enc,
	})
	if err != nil {
		return nil, fmt.Errorf("create session codec: %w", err)
	}
	return codec, nil
}

func createAESGCMEncryptor(material string) (*cryptoutil.AESGCMEncryptor, error) {
	key, err := cryptoutil.DeriveKey(material)
	if err != nil {
		return nil, err
	}
	return cryptoutil.NewAESGCMEncryptor(key)
}
