package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// SsmReferencePrefix marks a value that should be fetched from SSM Parameter Store.
const SsmReferencePrefix = "ssm:"

// SsmClient is the subset of the SSM API the resolver needs.
type SsmClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SsmSecretResolver turns "ssm:/some/name" references into parameter values.
type SsmSecretResolver struct {
	Client SsmClient
}

// NewSsmSecretResolver loads the default AWS configuration.
func NewSsmSecretResolver(ctx context.Context) (*SsmSecretResolver, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return &SsmSecretResolver{Client: ssm.NewFromConfig(cfg)}, nil
}

// IsSsmReference reports whether value needs resolving.
func IsSsmReference(value string) bool {
	return strings.HasPrefix(value, SsmReferencePrefix)
}

// Resolve returns value unchanged unless it is an SSM reference.
func (r *SsmSecretResolver) Resolve(ctx context.Context, value string) (string, error) {
	if !IsSsmReference(value) {
		return value, nil
	}
	paramName := strings.TrimPrefix(value, SsmReferencePrefix)
	if paramName == "" {
		return "", fmt.Errorf("empty SSM parameter name")
	}

	result, err := r.Client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to retrieve parameter '%s': %w", paramName, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", fmt.Errorf("parameter '%s' has no value", paramName)
	}

	return *result.Parameter.Value, nil
}
