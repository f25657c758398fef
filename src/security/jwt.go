package security

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"quest/src/utils"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AccessToken struct {
	IsAdmin  bool   `json:"isAdmin"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

var (
	accessPriv *ecdsa.PrivateKey
	accessPub  *ecdsa.PublicKey
)

func loadECPrivateKey(path string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil || block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("failed to decode PEM block containing EC private key")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}

	ecKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key in %s is not an EC key", path)
	}
	return ecKey, nil
}

func loadECPublicKey(path string) (*ecdsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("failed to decode PEM block containing EC public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}

	ecKey, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key in %s is not an EC key", path)
	}
	return ecKey, nil
}

// LoadKeys reads access_private.pem and access_public.pem from keysDir.
func LoadKeys(keysDir string) error {
	priv, err := loadECPrivateKey(filepath.Join(keysDir, "access_private.pem"))
	if err != nil {
		return fmt.Errorf("loading JWT private key: %w", err)
	}
	pub, err := loadECPublicKey(filepath.Join(keysDir, "access_public.pem"))
	if err != nil {
		return fmt.Errorf("loading JWT public key: %w", err)
	}

	accessPriv, accessPub = priv, pub
	return nil
}

func InitJWT(keysDir string) {
	logger := zap.L()
	logger.Info("Parsing JWT key pair...", zap.String("dir", keysDir))

	if err := LoadKeys(keysDir); err != nil {
		logger.Fatal("Failed to load JWT keys", zap.Error(err))
	}

	logger.Info("JWT key pair successfully loaded")
}

// SetKeys installs an in-memory key pair.
func SetKeys(priv *ecdsa.PrivateKey) {
	accessPriv = priv
	accessPub = &priv.PublicKey
}

func NewAccessToken(userId uuid.UUID, username string, isAdmin bool) (token string, err error) {
	exp := time.Now().Add(utils.Config.JWT.AccessExpiration)
	claims := AccessToken{
		IsAdmin:  isAdmin,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(accessPriv)
	return
}

func DecodeAccessToken(tokenStr string) (*AccessToken, error) {
	claims := &AccessToken{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return accessPub, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("could not parse and decode jwt")
	}
	return claims, nil
}
