// Package neptune holds pieces shared by the graph database transports.
package neptune

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// ServiceName is the signing name of IAM-authenticated clusters
const ServiceName = "neptune-db"

// Signer adds SigV4 headers to requests bound for an IAM-auth cluster.
// A nil Signer leaves requests untouched.
type Signer struct {
	credentials aws.CredentialsProvider
	region      string
	signer      *v4.Signer
	now         func() time.Time
}

// NewSigner creates a request signer for the given region
func NewSigner(credentials aws.CredentialsProvider, region string) *Signer {
	return &Signer{
		credentials: credentials,
		region:      region,
		signer:      v4.NewSigner(),
		now:         time.Now,
	}
}

// Sign signs req whose body hashes to the given payload
func (s *Signer) Sign(ctx context.Context, req *http.Request, payload []byte) error {
	if s == nil {
		return nil
	}

	creds, err := s.credentials.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve credentials: %w", err)
	}

	sum := sha256.Sum256(payload)
	if err := s.signer.SignHTTP(ctx, creds, req, hex.EncodeToString(sum[:]), ServiceName, s.region, s.now()); err != nil {
		return fmt.Errorf("failed to sign request: %w", err)
	}
	return nil
}
