package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidSignature 表示payload与签名不匹配
var ErrInvalidSignature = errors.New("ungültige Signatur")

// SubmissionPayload 定义了需要被签名的数据结构。
// 预览接口返回它的Token和签名，提交接口带回Token、签名和原始输入。
type SubmissionPayload struct {
	Token   string `json:"t"`
	Variant string `json:"v"`
	// Digest 是规范化后的原始输入的SHA-256，防止预览后篡改输入
	Digest string `json:"d"`
}

// Signer 使用HMAC-SHA256签发和验证提交令牌
type Signer struct {
	key []byte
}

// NewSigner 使用给定的密钥创建签名器
func NewSigner(key []byte) *Signer {
	return &Signer{key: key}
}

// NewRandomSigner 生成一个密码学安全的32字节随机密钥。进程重启后旧令牌全部失效。
func NewRandomSigner() (*Signer, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("无法生成安全的密钥: %w", err)
	}
	return &Signer{key: key}, nil
}

// NewToken 生成一个按时间排序的新令牌
func NewToken() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Digest 计算一段输入的摘要
func Digest(raw []byte) string {
	sum := sha256.Sum256(raw)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func (s *Signer) mac(payload SubmissionPayload) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.New("无法序列化Token payload")
	}
	mac := hmac.New(sha256.New, s.key)
	mac.Write(payloadBytes)
	return mac.Sum(nil), nil
}

// Sign 为payload生成Base64编码的签名。
func (s *Signer) Sign(payload SubmissionPayload) (string, error) {
	signature, err := s.mac(payload)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(signature), nil
}

// Verify 验证payload和签名是否匹配，不匹配时返回ErrInvalidSignature。
func (s *Signer) Verify(payload SubmissionPayload, signatureB64 string) error {
	expected, err := s.mac(payload)
	if err != nil {
		return err
	}
	actual, err := base64.RawURLEncoding.DecodeString(signatureB64)
	if err != nil {
		return ErrInvalidSignature
	}
	// 时间恒定的比较
	if !hmac.Equal(expected, actual) {
		return ErrInvalidSignature
	}
	return nil
}
