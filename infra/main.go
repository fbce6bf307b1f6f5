package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/stak-backend/infra/cloudrun"
	"github.com/GregMSThompson/stak-backend/infra/docker"
	"github.com/GregMSThompson/stak-backend/infra/firestore"
	"github.com/GregMSThompson/stak-backend/infra/identity"
	"github.com/GregMSThompson/stak-backend/infra/provider"
	"github.com/GregMSThompson/stak-backend/infra/vertex"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity service to allow using firebase
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// enable firestore, create the database and the swipe history index
		db, err := firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// vertex is the last generator in the fallback ladder
		vtx, err := vertex.SetupVertex(ctx, prov)
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		_, err = cloudrun.SetupCloudRun(ctx, prov, ident, db, vtx, repo)
		if err != nil {
			return err
		}

		return nil
	})
}
