package trace

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func newSNSClient(cfg aws.Config) snsClient {
	return sns.NewFromConfig(cfg)
}

func snsSend(client snsClient, topicARN string) sendFunc {
	return func(ctx context.Context, evt Event, payload []byte) (string, error) {
		out, err := client.Publish(ctx, &sns.PublishInput{
			TopicArn: aws.String(topicARN),
			Message:  aws.String(string(payload)),
			Subject:  aws.String("headlines trace " + evt.Route),
			MessageAttributes: map[string]types.MessageAttributeValue{
				"route": {DataType: aws.String("String"), StringValue: aws.String(evt.Route)},
			},
		})
		if err != nil {
			return "", err
		}
		return aws.ToString(out.MessageId), nil
	}
}
