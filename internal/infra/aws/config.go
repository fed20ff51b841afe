package aws

import (
	"context"
	"fmt"

	"go-weather/pkg/resource"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// CloudConfig holds the app.cloud.* properties.
type CloudConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

func CloudConfigFromProperties() CloudConfig {
	return CloudConfig{
		Region:          resource.GetStringOrDefault("app.cloud.aws-region", "us-east-1"),
		Endpoint:        resource.GetString("app.cloud.aws-endpoint"),
		AccessKeyID:     resource.GetString("app.cloud.aws-access-key-id"),
		SecretAccessKey: resource.GetString("app.cloud.aws-secret-access-key"),
	}
}

// LoadConfig builds the SDK configuration. Static credentials are used only
// when both keys are set; otherwise the default credential chain applies
// (environment variables, shared profile, IAM role).
func LoadConfig(ctx context.Context, cloud CloudConfig) (aws.Config, error) {
	options := []func(*config.LoadOptions) error{
		config.WithRegion(cloud.Region),
	}

	if cloud.AccessKeyID != "" && cloud.SecretAccessKey != "" {
		options = append(options, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cloud.AccessKeyID, cloud.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}
