package main

import (
	"encoding/json"

	"github.com/opdss/report/jwt"
	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
)

type tokenOutput struct {
	Token         string `json:"token"`
	ExpiresAt     int64  `json:"expires_at"`
	RefreshToken  string `json:"refresh_token,omitempty"`
	RefreshExpire int64  `json:"refresh_expires_at,omitempty"`
}

func cmdToken(cmd *cobra.Command, args []string) error {
	if tokenCfg.Jwt.Key == "" {
		return errs.New("jwt.key is required")
	}
	j := jwt.NewJwt(tokenCfg.Jwt)
	payload := jwt.TokenPayload{UserId: tokenCfg.UserId, Username: tokenCfg.Username}

	var out tokenOutput
	token, exp, err := j.CreateToken(payload)
	if err != nil {
		return err
	}
	out.Token, out.ExpiresAt = token, exp
	if tokenCfg.Refresh {
		token, exp, err = j.CreateRefreshToken(payload)
		if err != nil {
			return err
		}
		out.RefreshToken, out.RefreshExpire = token, exp
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
