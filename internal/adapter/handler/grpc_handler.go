package handler

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/rl1809/restaurant-cart/internal/core/domain"
	"github.com/rl1809/restaurant-cart/internal/core/service"
)

const (
	CartServiceName = "cart.v1.CartService"
	CodecName       = "json"
	sessionMetadata = "x-session-id"
)

// jsonCodec lets the cart service speak gRPC without generated protobuf
// stubs. Clients select it with grpc.CallContentSubtype(CodecName).
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                               { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type GetCartRequest struct{}

type ClearCartRequest struct{}

// TotalsRequest computes totals for the given tip without changing the
// session's selection; with no tip fields the session's selection is used.
type TotalsRequest struct {
	TipPercent *string `json:"tip_percent,omitempty"`
	TipCustom  *string `json:"tip_custom,omitempty"`
}

type CartServiceServer interface {
	GetCart(context.Context, *GetCartRequest) (*CartResponse, error)
	AddItem(context.Context, *AddItemRequest) (*CartResponse, error)
	RemoveItem(context.Context, *RemoveItemRequest) (*CartResponse, error)
	SetQuantity(context.Context, *SetQuantityRequest) (*CartResponse, error)
	ClearCart(context.Context, *ClearCartRequest) (*CartResponse, error)
	GetTotals(context.Context, *TotalsRequest) (*TotalsResponse, error)
	SelectTip(context.Context, *TipRequest) (*TotalsResponse, error)
	PlaceOrder(context.Context, *PlaceOrderRequest) (*OrderResponse, error)
}

var cartServiceDesc = grpc.ServiceDesc{
	ServiceName: CartServiceName,
	HandlerType: (*CartServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("GetCart", CartServiceServer.GetCart),
		unaryMethod("AddItem", CartServiceServer.AddItem),
		unaryMethod("RemoveItem", CartServiceServer.RemoveItem),
		unaryMethod("SetQuantity", CartServiceServer.SetQuantity),
		unaryMethod("ClearCart", CartServiceServer.ClearCart),
		unaryMethod("GetTotals", CartServiceServer.GetTotals),
		unaryMethod("SelectTip", CartServiceServer.SelectTip),
		unaryMethod("PlaceOrder", CartServiceServer.PlaceOrder),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterCartServiceServer(s grpc.ServiceRegistrar, srv CartServiceServer) {
	s.RegisterService(&cartServiceDesc, srv)
}

func unaryMethod[Req, Resp any](name string, call func(CartServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CartServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + CartServiceName + "/" + name,
			}
			return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(CartServiceServer), ctx, req.(*Req))
			})
		},
	}
}

type GRPCHandler struct {
	sessions     *Sessions
	orderService *service.OrderService
	logger       *zap.Logger
}

func NewGRPCHandler(sessions *Sessions, orderService *service.OrderService, logger *zap.Logger) *GRPCHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandler{sessions: sessions, orderService: orderService, logger: logger}
}

func (h *GRPCHandler) GetCart(ctx context.Context, _ *GetCartRequest) (*CartResponse, error) {
	sess, err := h.session(ctx)
	if err != nil {
		return nil, err
	}
	resp := toCartResponse(sess.Cart.GetCart(ctx))
	return &resp, nil
}

func (h *GRPCHandler) AddItem(ctx context.Context, req *AddItemRequest) (*CartResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "missing item id")
	}
	sess, err := h.session(ctx)
	if err != nil {
		return nil, err
	}

	item := domain.MenuItem{ID: req.ID, Name: req.Name, Price: req.Price, Image: req.Image}
	if err := sess.Cart.AddItem(ctx, item, req.Options, req.Instructions); err != nil {
		return nil, h.mapError(err)
	}
	resp := toCartResponse(sess.Cart.GetCart(ctx))
	return &resp, nil
}

func (h *GRPCHandler) RemoveItem(ctx context.Context, req *RemoveItemRequest) (*CartResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "missing item id")
	}
	sess, err := h.session(ctx)
	if err != nil {
		return nil, err
	}

	key := domain.NewItemKey(req.ID, req.Options, req.Instructions)
	if err := sess.Cart.RemoveItem(ctx, key); err != nil {
		return nil, h.mapError(err)
	}
	resp := toCartResponse(sess.Cart.GetCart(ctx))
	return &resp, nil
}

func (h *GRPCHandler) SetQuantity(ctx context.Context, req *SetQuantityRequest) (*CartResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "missing item id")
	}
	sess, err := h.session(ctx)
	if err != nil {
		return nil, err
	}

	key := domain.NewItemKey(req.ID, req.Options, req.Instructions)
	if err := sess.Cart.SetQuantity(ctx, key, req.Quantity); err != nil {
		return nil, h.mapError(err)
	}
	resp := toCartResponse(sess.Cart.GetCart(ctx))
	return &resp, nil
}

func (h *GRPCHandler) ClearCart(ctx context.Context, _ *ClearCartRequest) (*CartResponse, error) {
	sess, err := h.session(ctx)
	if err != nil {
		return nil, err
	}
	if err := sess.Cart.Clear(ctx); err != nil {
		return nil, h.mapError(err)
	}
	resp := toCartResponse(domain.Cart{})
	return &resp, nil
}

func (h *GRPCHandler) GetTotals(ctx context.Context, req *TotalsRequest) (*TotalsResponse, error) {
	sess, err := h.session(ctx)
	if err != nil {
		return nil, err
	}

	tip := sess.Checkout.Tip()
	switch {
	case req.TipPercent != nil:
		p, ok := parsePercent(*req.TipPercent)
		if !ok {
			return nil, status.Error(codes.InvalidArgument, "invalid tip percent")
		}
		tip = domain.PercentTip(p)
	case req.TipCustom != nil:
		tip = domain.CustomTip(*req.TipCustom)
	}

	resp := toTotalsResponse(sess.Checkout.TotalsWith(ctx, tip), tip)
	return &resp, nil
}

// SelectTip changes the session's tip selection, like PUT /api/cart/tip.
func (h *GRPCHandler) SelectTip(ctx context.Context, req *TipRequest) (*TotalsResponse, error) {
	sess, err := h.session(ctx)
	if err != nil {
		return nil, err
	}

	var totals domain.OrderTotals
	switch {
	case req.Percent != nil:
		p, ok := parsePercent(*req.Percent)
		if !ok {
			return nil, status.Error(codes.InvalidArgument, "invalid tip percent")
		}
		totals = sess.Checkout.SelectTipPercent(ctx, p)
	case req.Custom != nil:
		totals = sess.Checkout.SetCustomTip(ctx, *req.Custom)
	default:
		return nil, status.Error(codes.InvalidArgument, "percent or custom is required")
	}
	resp := toTotalsResponse(totals, sess.Checkout.Tip())
	return &resp, nil
}

// PlaceOrder waits for submission; a cancelled RPC cancels the order.
func (h *GRPCHandler) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*OrderResponse, error) {
	if req.RequestID == "" {
		return nil, status.Error(codes.InvalidArgument, "missing request id")
	}
	sess, err := h.session(ctx)
	if err != nil {
		return nil, err
	}

	sub, err := h.orderService.PlaceOrder(ctx, service.PlaceOrderRequest{
		RequestID:   req.RequestID,
		SessionID:   sess.ID,
		Checkout:    sess.Checkout,
		Fulfillment: req.fulfillment(),
	})
	if err != nil {
		return nil, h.mapError(err)
	}

	order, err := sub.Wait(ctx)
	if err != nil && order.Status != domain.OrderStatusConfirmed {
		return nil, h.mapError(err)
	}
	resp := toOrderResponse(order)
	return &resp, nil
}

func (h *GRPCHandler) session(ctx context.Context) (*Session, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	ids := md.Get(sessionMetadata)
	if len(ids) == 0 || ids[0] == "" {
		return nil, status.Error(codes.InvalidArgument, "missing "+sessionMetadata+" metadata")
	}
	return h.sessions.Get(ids[0]), nil
}

func (h *GRPCHandler) mapError(err error) error {
	switch {
	case errors.Is(err, service.ErrStorageUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, service.ErrInvalidItem), errors.Is(err, service.ErrInvalidFulfillment):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrDuplicateRequest):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, service.ErrEmptyCart):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrQueueFull), errors.Is(err, service.ErrServiceClosed):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	h.logger.Error("rpc failed", zap.Error(err))
	return status.Errorf(codes.Internal, "internal error: %v", err)
}
