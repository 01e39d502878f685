package telemetry

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"fidescrape/lib/restyutil"

	"github.com/go-resty/resty/v2"
)

const (
	report_resty_request  = "resty.request"
	report_resty_response = "resty.response"
)

// RestyInstrumentation reports every request, response and transport error of the
// clients it instruments to tel. Request ids are shared by all of its clients.
// When out is not nil, the full text of each exchange is written to it as well.
type RestyInstrumentation struct {
	tel       API
	out       restyutil.MessageOutput
	idcounter atomic.Uint64
}

func NewRestyInstrumentation(tel API, out restyutil.MessageOutput) *RestyInstrumentation {
	return &RestyInstrumentation{tel: tel, out: out}
}

func (i *RestyInstrumentation) Instrument(client *resty.Client) {
	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

// InstrumentResty instruments a single client, see RestyInstrumentation.
func InstrumentResty(client *resty.Client, tel API, out restyutil.MessageOutput) {
	NewRestyInstrumentation(tel, out).Instrument(client)
}

type reqCtxKeyType int

var reqCtxKey reqCtxKeyType

type reqCtx struct {
	id        uint64
	startTime time.Time
}

func (i *RestyInstrumentation) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx := req.Context()

	id := i.idcounter.Add(1)
	ctx = context.WithValue(ctx, reqCtxKey, reqCtx{
		id:        id,
		startTime: time.Now(),
	})
	i.tel.ReportDebug(report_resty_request, id, req.Method, req.URL)

	req.SetContext(ctx)
	return nil
}

func (i *RestyInstrumentation) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	reqCtx, ok := res.Request.Context().Value(reqCtxKey).(reqCtx)
	if !ok {
		return nil
	}

	i.tel.ReportDebug(
		report_resty_response,
		reqCtx.id,
		time.Since(reqCtx.startTime).String(),
		res.Status(),
	)
	if i.out != nil {
		i.out.Write(strconv.FormatUint(reqCtx.id, 10), restyutil.FormatMessage(res))
	}
	return nil
}

func (i *RestyInstrumentation) onError(req *resty.Request, err error) {
	var duration time.Duration
	reqCtx, ok := req.Context().Value(reqCtxKey).(reqCtx)
	if ok {
		duration = time.Since(reqCtx.startTime)
	}

	i.tel.ReportBroken(
		report_resty_response,
		err,
		req.Method,
		req.URL,
		duration,
	)
}
