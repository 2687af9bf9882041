package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SpacesLoader fetches catalog documents from a DigitalOcean Spaces
// bucket so deployments can update card/pack definitions without a
// redeploy.
type SpacesLoader struct {
	client *s3.Client
	bucket string
	root   string
}

func NewSpacesLoader(key, secret, region, bucket, root string) (*SpacesLoader, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load Spaces config: %w", err)
	}

	return &SpacesLoader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		root:   strings.Trim(root, "/"),
	}, nil
}

// Load fetches cards.json and packs.json from the bucket root and builds
// the catalog.
func (l *SpacesLoader) Load(ctx context.Context) (*Catalog, error) {
	cardsObj, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &l.bucket,
		Key:    aws.String(l.key("cards.json")),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch card definitions: %w", err)
	}
	defer cardsObj.Body.Close()

	packsObj, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &l.bucket,
		Key:    aws.String(l.key("packs.json")),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pack definitions: %w", err)
	}
	defer packsObj.Body.Close()

	return Decode(cardsObj.Body, packsObj.Body)
}

func (l *SpacesLoader) key(name string) string {
	if l.root == "" {
		return name
	}
	return l.root + "/" + name
}
