/*
 *  Copyright 2026 CivicFund
 *  This file is part of the quadfund-backend library.
 *
 *  The quadfund-backend library is free software: you can redistribute it
 *  and/or modify it under the terms of the GNU Lesser General Public License
 *  as published by the Free Software Foundation, either version 3 of the
 *  License, or (at your option) any later version.
 *
 *  The quadfund-backend library is distributed in the hope that it will be
 *  useful, but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 *  GNU Lesser General Public License for more details.
 *
 *  You should have received a copy of the GNU Lesser General Public License
 *  along with the quadfund-backend library. If not, see
 *  <http://www.gnu.org/licenses/>.
 */

package api

import (
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"

	"github.com/civicfund/quadfund-backend/cfg"
)

func Start(e *echo.Echo, srv RestServer, cfg cfg.FundConfig) {
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Gzip())

	v1Gr := e.Group("/api/v1")
	bindAPIs(v1Gr, srv)

	if err := e.Start(cfg.Port); err != nil {
		panic("cannot start echo server")
	}
}
