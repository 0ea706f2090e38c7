package main

import (
	"fmt"

	echoapi "github.com/tarunb-0127/minilms/apps/api/echo"
)

// token prints a learner token signed with the server secret, for local development.
func (cli *commandLine) token(learnerID int) error {
	claims := echoapi.NewLearnerClaims(learnerID, cli.conf.AppName, cli.conf.Server.JWTExpirationDelta)
	token, err := echoapi.GenerateToken(cli.conf.Server.SecretKey, claims)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
