package trace

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

func newSQSClient(cfg aws.Config) sqsClient {
	return sqs.NewFromConfig(cfg)
}

// sqsSend carries the route as a message attribute for queue-side filtering.
func sqsSend(client sqsClient, queueURL string) sendFunc {
	return func(ctx context.Context, evt Event, payload []byte) (string, error) {
		out, err := client.SendMessage(ctx, &sqs.SendMessageInput{
			QueueUrl:    aws.String(queueURL),
			MessageBody: aws.String(string(payload)),
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
