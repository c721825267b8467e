package importer

import (
	"io"

	"github.com/rgoodall/duebook/internal/client"
)

type Parser interface {
	Parse(r io.Reader) ([]client.Client, error)
}
