// Package targetgroup enumerates the instances behind a load balancer target
// group or an auto scaling group and reports one metric per instance.
package targetgroup

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
)

type TargetHealthAPI interface {
	DescribeTargetHealth(ctx context.Context, params *elbv2.DescribeTargetHealthInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeTargetHealthOutput, error)
}

type AutoScalingAPI interface {
	DescribeAutoScalingGroups(ctx context.Context, params *autoscaling.DescribeAutoScalingGroupsInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeAutoScalingGroupsOutput, error)
}

// Lister returns the instance ids to check.
type Lister func(ctx context.Context) ([]string, error)

// TargetGroupMembers lists the ids of targets registered to the target group,
// in the order the API returns them.
func TargetGroupMembers(api TargetHealthAPI, arn string) Lister {
	return func(ctx context.Context) ([]string, error) {
		out, err := api.DescribeTargetHealth(ctx, &elbv2.DescribeTargetHealthInput{
			TargetGroupArn: aws.String(arn),
		})
		if err != nil {
			return nil, fmt.Errorf("describe target health %s: %w", arn, err)
		}
		ids := make([]string, 0, len(out.TargetHealthDescriptions))
		for _, d := range out.TargetHealthDescriptions {
			if d.Target == nil || d.Target.Id == nil {
				continue
			}
			ids = append(ids, aws.ToString(d.Target.Id))
		}
		return ids, nil
	}
}

// AutoScalingMembers lists the instances of the named auto scaling group.
func AutoScalingMembers(api AutoScalingAPI, name string) Lister {
	return func(ctx context.Context) ([]string, error) {
		out, err := api.DescribeAutoScalingGroups(ctx, &autoscaling.DescribeAutoScalingGroupsInput{
			AutoScalingGroupNames: []string{name},
		})
		if err != nil {
			return nil, fmt.Errorf("describe auto scaling group %s: %w", name, err)
		}
		if len(out.AutoScalingGroups) == 0 {
			return nil, fmt.Errorf("auto scaling group %s not found", name)
		}
		var ids []string
		for _, in := range out.AutoScalingGroups[0].Instances {
			ids = append(ids, aws.ToString(in.InstanceId))
		}
		return ids, nil
	}
}
