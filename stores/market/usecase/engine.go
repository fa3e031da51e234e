package usecase

import (
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/base/log"
	"github.com/x-xyz/listings/base/metrics"
	"github.com/x-xyz/listings/base/ownable"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/listing"
)

const secondsPerHour = 3600

type MarketCfg struct {
	Address common.Address
	Owner   common.Address
	Repo    listing.Repo
	Metrics metrics.Service
}

// engine is the listing state machine shared by both variants. Per slot: empty, active, empty again
// after a cancel or a sale.
type engine struct {
	address    common.Address
	guard      *ownable.Guard
	commission *Commission
	vault      *Vault
	repo       listing.Repo
	custody    custody
	metrics    metrics.Service
}

func newEngine(cfg *MarketCfg, c custody) *engine {
	guard := ownable.New(cfg.Owner)
	ms := cfg.Metrics
	if ms == nil {
		ms = metrics.NewNop()
	}
	return &engine{
		address:    cfg.Address,
		guard:      guard,
		commission: NewCommission(guard),
		vault:      NewVault(cfg.Address, guard),
		repo:       cfg.Repo,
		custody:    c,
		metrics:    ms,
	}
}

func (e *engine) Address() common.Address {
	return e.address
}

func (e *engine) Owner() common.Address {
	return e.guard.Owner()
}

func (e *engine) ComissionPercent() uint64 {
	return e.commission.Percent()
}

func (e *engine) SetComissionPercent(tx domain.Tx, value uint64) error {
	if err := e.commission.SetPercent(tx, value); err != nil {
		return e.fail(tx, "setComissionPercent", log.Fields{"value": value}, err)
	}
	tx.Ctx().WithFields(log.Fields{"variant": e.variant(), "percent": value}).Info("comission percent updated")
	return nil
}

func (e *engine) Withdraw(tx domain.Tx) error {
	amount := tx.Balance(e.address)
	if err := e.vault.Withdraw(tx); err != nil {
		return e.fail(tx, "withdraw", log.Fields{"amount": amount.String()}, err)
	}
	tx.Ctx().WithFields(log.Fields{"variant": e.variant(), "amount": amount.String()}).Info("commission withdrawn")
	return nil
}

func (e *engine) FindAll(opts ...listing.FindAllOptionsFunc) ([]listing.Listing, error) {
	return e.repo.FindAll(opts...)
}

func (e *engine) variant() string {
	return e.custody.variant().String()
}

// offer is a validated request to fill a slot
type offer struct {
	key           listing.Key
	item          *big.Int
	amount        *big.Int
	price         *big.Int
	durationHours uint64
}

func (e *engine) add(tx domain.Tx, o offer) error {
	seller := tx.Sender()
	fields := log.Fields{"contract": o.key.Contract.Hex(), "item": domain.BigOrZero(o.item).String(), "seller": seller.Hex()}

	if err := validateOffer(tx.Now(), o); err != nil {
		return e.fail(tx, "addListing", fields, err)
	}
	holds, err := e.custody.holds(tx, o.key.Contract, seller, o.item, o.amount)
	if err != nil {
		return e.fail(tx, "addListing", fields, err)
	}
	if !holds {
		return e.fail(tx, "addListing", fields, e.custody.notHolder(false))
	}
	if err := e.requireApproved(tx, o.key.Contract, seller); err != nil {
		return e.fail(tx, "addListing", fields, err)
	}

	l := listing.Listing{
		Id:         e.repo.NextId(tx),
		Seller:     seller,
		Contract:   o.key.Contract,
		Item:       new(big.Int).Set(o.item),
		Amount:     new(big.Int).Set(o.amount),
		Price:      new(big.Int).Set(o.price),
		ExpireTime: tx.Now() + o.durationHours*secondsPerHour,
	}
	e.repo.Put(tx, o.key, l)
	tx.Emit(listing.ListingCreated{Variant: e.custody.variant(), Listing: l.Clone()})

	fields["id"] = l.Id
	fields["expireTime"] = l.ExpireTime
	tx.Ctx().WithFields(fields).Info("listing created")
	e.metrics.BumpSum("listing.created", 1, "variant", e.variant())
	return nil
}

func validateOffer(now uint64, o offer) error {
	if o.price == nil || o.price.Sign() <= 0 {
		return domain.ErrPriceNotPositive
	}
	if o.durationHours == 0 {
		return domain.ErrDurationNotPositive
	}
	if o.durationHours > (math.MaxUint64-now)/secondsPerHour {
		return domain.ErrDurationTooLong
	}
	if o.amount == nil || o.amount.Sign() <= 0 {
		return domain.ErrAmountNotPositive
	}
	if o.item == nil || o.item.Sign() < 0 {
		return domain.ErrNonexistentToken
	}
	return nil
}

func (e *engine) cancel(tx domain.Tx, key listing.Key) error {
	fields := log.Fields{"contract": key.Contract.Hex(), "item": key.Item.Big().String(), "caller": tx.Sender().Hex()}

	l := e.repo.Get(key)
	if !l.Exists() {
		return e.fail(tx, "cancelListing", fields, domain.ErrListingNotFound)
	}
	if tx.Sender() != l.Seller {
		return e.fail(tx, "cancelListing", fields, domain.ErrNotSeller)
	}

	e.repo.Clear(tx, key)
	tx.Emit(listing.ListingRemoved{Variant: e.custody.variant(), Listing: l})

	fields["id"] = l.Id
	tx.Ctx().WithFields(fields).Info("listing removed")
	e.metrics.BumpSum("listing.removed", 1, "variant", e.variant())
	return nil
}

func (e *engine) buy(tx domain.Tx, key listing.Key) error {
	buyer := tx.Sender()
	fields := log.Fields{"contract": key.Contract.Hex(), "item": key.Item.Big().String(), "buyer": buyer.Hex()}

	l := e.repo.Get(key)
	if !l.Exists() {
		return e.fail(tx, "buyToken", fields, domain.ErrListingNotFound)
	}
	fields["id"] = l.Id
	fields["seller"] = l.Seller.Hex()
	if l.Expired(tx.Now()) {
		return e.fail(tx, "buyToken", fields, domain.ErrListingExpired)
	}
	if buyer == l.Seller {
		return e.fail(tx, "buyToken", fields, domain.ErrSelfPurchase)
	}
	holds, err := e.custody.holds(tx, l.Contract, l.Seller, l.Item, l.Amount)
	if err != nil {
		return e.fail(tx, "buyToken", fields, err)
	}
	if !holds {
		return e.fail(tx, "buyToken", fields, e.custody.notHolder(true))
	}
	if err := e.requireApproved(tx, l.Contract, l.Seller); err != nil {
		return e.fail(tx, "buyToken", fields, err)
	}
	paid := tx.Value()
	if paid.Cmp(l.Total()) != 0 {
		return e.fail(tx, "buyToken", fields, domain.ErrFundsMismatch)
	}

	s := e.clear(tx, key, l)
	if err := s.deliver(buyer); err != nil {
		return e.fail(tx, "buyToken", fields, err)
	}
	commission, err := s.pay(paid)
	if err != nil {
		return e.fail(tx, "buyToken", fields, err)
	}
	tx.Emit(listing.TokenSold{Variant: e.custody.variant(), Listing: l, Buyer: buyer})

	fields["paid"] = paid.String()
	fields["commission"] = commission.String()
	tx.Ctx().WithFields(fields).Info("token sold")
	e.metrics.BumpSum("token.sold", 1, "variant", e.variant())
	sum, _ := new(big.Float).SetInt(commission).Float64()
	e.metrics.BumpSum("commission.sum", sum, "variant", e.variant())
	return nil
}

func (e *engine) requireApproved(tx domain.Tx, contract, holder common.Address) error {
	ok, err := e.custody.approved(tx, contract, holder, e.address)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotApproved
	}
	return nil
}

func (e *engine) fail(tx domain.Tx, op string, fields log.Fields, err error) error {
	tx.Ctx().WithFields(fields).WithFields(log.Fields{"op": op, "variant": e.variant(), "err": err}).Warn("marketplace call failed")
	e.metrics.BumpSum("guard.err", 1, "variant", e.variant(), "op", op)
	return err
}

// settlement carries out the external calls of a sale. It is only handed out by clear, once the
// slot is empty, so a call re-entering the marketplace finds no listing.
type settlement struct {
	e       *engine
	tx      domain.Tx
	listing listing.Listing
}

func (e *engine) clear(tx domain.Tx, key listing.Key, l listing.Listing) *settlement {
	e.repo.Clear(tx, key)
	return &settlement{e: e, tx: tx, listing: l}
}

func (s *settlement) deliver(buyer common.Address) error {
	l := s.listing
	return s.e.custody.transfer(s.tx, l.Contract, l.Seller, buyer, l.Item, l.Amount)
}

// pay forwards the seller share of paid and keeps the commission in the vault
func (s *settlement) pay(paid *big.Int) (*big.Int, error) {
	seller, commission := s.e.commission.Split(paid)
	if err := s.tx.Transfer(s.listing.Seller, seller); err != nil {
		return nil, err
	}
	return commission, nil
}
