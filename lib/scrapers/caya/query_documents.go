package caya

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const documentsConnectionQuery = `query DocumentsConnection($after: String, $before: String, $first: Int, $last: Int, $orderBy: ContainerOrderByInput = createdAt_DESC, $skip: Int, $where: ContainerWhereInput!) {
  connection: containersConnection(
    after: $after
    before: $before
    first: $first
    last: $last
    orderBy: $orderBy
    skip: $skip
    where: $where
  ) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        ... on ContainerDocument {
          id
          filename
          file
          createdAt
          documentId
          metadata {
            subject
            tags
            senderName
          }
        }
      }
    }
  }
}`

type DocumentMetadata struct {
	Subject    string   `json:"subject"`
	Tags       []string `json:"tags"`
	SenderName string   `json:"senderName"`
}

// DocumentRecord is one document node from the listing connection.
// File is a pre-signed, time-limited download url and may be empty.
type DocumentRecord struct {
	Id         string           `json:"id"`
	Filename   string           `json:"filename"`
	File       string           `json:"file"`
	DocumentId string           `json:"documentId"`
	CreatedAt  string           `json:"createdAt"`
	Metadata   DocumentMetadata `json:"metadata"`
}

type documentsWhereFolder struct {
	Id string `json:"id"`
}

type documentsWhere struct {
	Folder documentsWhereFolder `json:"folder"`
	Unread bool                 `json:"unread"`
	TypeIn []string             `json:"type_in"`
}

type documentsVariables struct {
	OrderBy string         `json:"orderBy"`
	First   int            `json:"first"`
	After   string         `json:"after,omitempty"`
	Where   documentsWhere `json:"where"`
}

type documentsConnectionResponse struct {
	Connection struct {
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
		Edges []struct {
			Node DocumentRecord `json:"node"`
		} `json:"edges"`
	} `json:"connection"`
}

const maxPageSize = 1000

type ListDocumentsRequest struct {
	FolderId string
	// documents per query, defaults to 50, the api caps it at 1000
	PageSize int
}

// ListDocuments pages through every digital or scanned document in the
// folder that is no longer marked unread, newest first. It follows the
// connection's end cursor until the last page so folders larger than
// one page are enumerated completely.
func (c *Client) ListDocuments(ctx context.Context, auth AuthContext, req ListDocumentsRequest) ([]DocumentRecord, error) {
	ctx, span := tracer.Start(ctx, "ListDocuments")
	defer span.End()

	span.SetAttributes(attribute.String("folder", req.FolderId))

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var docs []DocumentRecord
	after := ""
	for {
		vars := documentsVariables{
			OrderBy: "createdAt_DESC",
			First:   pageSize,
			After:   after,
			Where: documentsWhere{
				Folder: documentsWhereFolder{Id: req.FolderId},
				Unread: false,
				TypeIn: []string{"DocumentDigital", "DocumentScan"},
			},
		}

		var res documentsConnectionResponse
		err := c.graphqlQuery(ctx, auth, "DocumentsConnection", documentsConnectionQuery, vars, &res)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to list documents")
			return nil, err
		}

		for _, edge := range res.Connection.Edges {
			docs = append(docs, edge.Node)
		}

		if !res.Connection.PageInfo.HasNextPage || res.Connection.PageInfo.EndCursor == "" {
			break
		}
		after = res.Connection.PageInfo.EndCursor
	}

	span.SetAttributes(attribute.Int("documents", len(docs)))
	return docs, nil
}
