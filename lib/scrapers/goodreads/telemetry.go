package goodreads

import (
	"go.opentelemetry.io/otel"

	"bookshelf-backend/lib/restyutil"
)

var tracer = otel.Tracer("scrapers/goodreads")

func (c *Client) SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyutil.InstrumentClient(c.Http, tracer, out)
}
