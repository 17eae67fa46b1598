package covers

import (
	"go.opentelemetry.io/otel"

	"bookshelf-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
)

var tracer = otel.Tracer("covers")

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	client = resty.New()
	restyutil.InstrumentClient(client, tracer, out)
}
