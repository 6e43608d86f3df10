package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/bot-go-brr/brain/internal/auton"
	"github.com/bot-go-brr/brain/internal/persistence"
	"github.com/labstack/echo/v4"
)

// maxSourceSize limits uploaded authoring files
const maxSourceSize = 1 << 20

type ProgramDetails struct {
	Key     string        `json:"key"`
	Ticks   uint64        `json:"ticks"`
	Entries auton.Program `json:"entries"`
	Source  string        `json:"source"`
}

func registerProgramEndpoints(rest *echo.Echo, programs persistence.Persistence) {
	group := rest.Group("/program")

	group.GET("/", func(c echo.Context) error {
		infos, err := programs.List()
		if err != nil {
			return returnError(c, err)
		}
		if infos == nil {
			infos = []persistence.ProgramInfo{}
		}
		return c.JSONPretty(http.StatusOK, infos, indentationChar)
	})
	group.GET("/:"+urlParamId+"/", func(c echo.Context) error {
		return getProgram(c, programs)
	})
	group.PUT("/:"+urlParamId+"/", func(c echo.Context) error {
		return putProgram(c, programs)
	})
	group.DELETE("/:"+urlParamId+"/", func(c echo.Context) error {
		id := c.Param(urlParamId)
		if err := programs.Delete(id); err != nil {
			return returnError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	})
}

func getProgram(c echo.Context, programs persistence.Persistence) error {
	id := c.Param(urlParamId)
	data, err := programs.Read(id)
	if errors.Is(err, persistence.ErrNotFound) {
		return returnNotFound(c, id)
	}
	if err != nil {
		return returnError(c, err)
	}

	program, err := auton.DecodeProgram(data)
	if err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusOK, ProgramDetails{
		Key:     id,
		Ticks:   program.Ticks(),
		Entries: program,
		Source:  auton.FormatProgram(program),
	}, indentationChar)
}

// putProgram compiles an authoring format body and stores it under the id
func putProgram(c echo.Context, programs persistence.Persistence) error {
	id := c.Param(urlParamId)
	if err := persistence.ValidateKey(id); err != nil {
		return returnBadRequest(c, err)
	}

	program, err := auton.ParseProgram(io.LimitReader(c.Request().Body, maxSourceSize))
	if err != nil {
		return returnBadRequest(c, err)
	}
	if err := programs.Write(id, program.Encode()); err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusCreated, ProgramDetails{
		Key:     id,
		Ticks:   program.Ticks(),
		Entries: program,
		Source:  auton.FormatProgram(program),
	}, indentationChar)
}
