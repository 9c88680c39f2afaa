// Package awsenv builds AWS service clients from the shared SDK config.
package awsenv

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
)

// Clients holds one client per AWS service the probes talk to.
type Clients struct {
	CloudWatch  *cloudwatch.Client
	ELB         *elasticloadbalancingv2.Client
	AutoScaling *autoscaling.Client
	EC2         *ec2.Client
}

// Load resolves credentials the standard SDK way (env, shared files, IMDS).
// region overrides the resolved region when set.
func Load(ctx context.Context, region string, httpClient *http.Client) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if httpClient != nil {
		opts = append(opts, config.WithHTTPClient(httpClient))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

func NewClients(cfg aws.Config) *Clients {
	return &Clients{
		CloudWatch:  cloudwatch.NewFromConfig(cfg),
		ELB:         elasticloadbalancingv2.NewFromConfig(cfg),
		AutoScaling: autoscaling.NewFromConfig(cfg),
		EC2:         ec2.NewFromConfig(cfg),
	}
}
