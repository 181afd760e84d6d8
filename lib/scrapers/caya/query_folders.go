package caya

import (
	"context"
	"fmt"
)

const meCustomerQuery = `query MeCustomer { meFolders { inbox { id } archive { id } trash { id } } }`

var ErrNoInboxFolder = fmt.Errorf("failed to find inbox folder id, cannot continue")

type FolderRef struct {
	Id string `json:"id"`
}

type Folders struct {
	Inbox   FolderRef `json:"inbox"`
	Archive FolderRef `json:"archive"`
	Trash   FolderRef `json:"trash"`
}

type getFoldersResponse struct {
	MeFolders Folders `json:"meFolders"`
}

// GetFolders resolves the account's container ids. A missing inbox id
// is fatal, there is nothing to enumerate without it.
func (c *Client) GetFolders(ctx context.Context, auth AuthContext) (*Folders, error) {
	res := &getFoldersResponse{}
	err := c.graphqlQuery(ctx, auth, "MeCustomer", meCustomerQuery, struct{}{}, res)
	if err != nil {
		return nil, err
	}
	if res.MeFolders.Inbox.Id == "" {
		return nil, ErrNoInboxFolder
	}
	return &res.MeFolders, nil
}
