// Package ebs looks up the block storage volumes attached to an instance and
// reports one CloudWatch metric per volume.
package ebs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

type VolumesAPI interface {
	DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
}

// Volume is one attachment of a volume to the queried instance.
type Volume struct {
	ID     string
	Device string
	State  string
}

// Label identifies the volume in plugin output.
func (v Volume) Label() string {
	if v.Device == "" {
		return v.ID
	}
	return v.ID + ":" + v.Device
}

// AttachedVolumes returns the volumes attached to instanceID.
func AttachedVolumes(ctx context.Context, api VolumesAPI, instanceID string) ([]Volume, error) {
	in := &ec2.DescribeVolumesInput{
		Filters: []types.Filter{{
			Name:   aws.String("attachment.instance-id"),
			Values: []string{instanceID},
		}},
	}
	var vols []Volume
	for {
		out, err := api.DescribeVolumes(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("describe volumes for %s: %w", instanceID, err)
		}
		for _, v := range out.Volumes {
			for _, a := range v.Attachments {
				if aws.ToString(a.InstanceId) != instanceID {
					continue
				}
				vols = append(vols, Volume{
					ID:     aws.ToString(v.VolumeId),
					Device: aws.ToString(a.Device),
					State:  string(a.State),
				})
			}
		}
		if aws.ToString(out.NextToken) == "" {
			return vols, nil
		}
		in.NextToken = out.NextToken
	}
}
