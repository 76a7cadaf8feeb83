// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package auth issues and validates the operator tokens that guard
administrative endpoints such as the forced dataset refresh.

Tokens are HS256-signed JWTs carrying a subject and a role. Only tokens
with RoleOperator pass the API guard.

	jm, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	if err != nil {
	    return err
	}
	token, _ := jm.GenerateToken("deploy-bot", auth.RoleOperator)
*/
package auth
