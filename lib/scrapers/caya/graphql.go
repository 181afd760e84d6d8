package caya

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type graphqlOperation struct {
	OperationName string `json:"operationName"`
	Variables     any    `json:"variables"`
	Query         string `json:"query"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResult struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// the portal speaks a batched graphql dialect: the request body is a
// json array of named operations, the response is an array with one
// result object per operation.
func (c *Client) graphqlQuery(
	ctx context.Context,
	auth AuthContext,
	name,
	query string,
	variables any,
	output any,
) error {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("graphql:%s", name))
	defer span.End()

	span.SetAttributes(attribute.String("operation", name))

	body, err := json.Marshal([]graphqlOperation{{
		OperationName: name,
		Variables:     variables,
		Query:         query,
	}})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize json query")
		return err
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(body)
	if auth.Authorization != "" {
		req.SetHeader("authorization", auth.Authorization)
	}
	if auth.CookieHeader != "" {
		req.SetHeader("cookie", auth.CookieHeader)
	}

	res, err := req.Post(c.endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return fmt.Errorf("query %s: %w", name, err)
	}

	var results []graphqlResult
	err = json.Unmarshal(res.Body(), &results)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse json response")
		return fmt.Errorf("decode %s response: %w", name, err)
	}
	if len(results) == 0 {
		err := fmt.Errorf("decode %s response: empty result array", name)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	result := results[0]
	if len(result.Errors) > 0 {
		err := fmt.Errorf("query %s: %s", name, result.Errors[0].Message)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if output == nil {
		return nil
	}

	err = json.Unmarshal(result.Data, output)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse operation data")
		return fmt.Errorf("decode %s data: %w", name, err)
	}
	return nil
}
