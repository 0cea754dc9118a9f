package ledger

import (
	errorsmod "cosmossdk.io/errors"
	dbm "github.com/tendermint/tm-db"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
)

var prefixAccount = []byte("acct/")

func accountKey(addr ttptypes.Address) []byte {
	return append(append([]byte(nil), prefixAccount...), addr[:]...)
}

// record layout: [owner 32][data...]
func encodeAccount(owner ttptypes.Address, data []byte) []byte {
	bz := make([]byte, 0, ttptypes.AddressLen+len(data))
	bz = append(bz, owner[:]...)
	return append(bz, data...)
}

func decodeAccount(addr ttptypes.Address, bz []byte) (*ttptypes.AccountInfo, error) {
	if len(bz) < ttptypes.AddressLen {
		return nil, errorsmod.Wrapf(ErrInvalidAccountRecord, "account %s: %d bytes", addr, len(bz))
	}
	info := &ttptypes.AccountInfo{
		Address: addr,
		Data:    append([]byte(nil), bz[ttptypes.AddressLen:]...),
	}
	copy(info.Owner[:], bz[:ttptypes.AddressLen])
	return info, nil
}

func getAccount(db dbm.DB, addr ttptypes.Address) (*ttptypes.AccountInfo, error) {
	bz, err := db.Get(accountKey(addr))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, errorsmod.Wrapf(ErrAccountNotFound, "%s", addr)
	}
	return decodeAccount(addr, bz)
}

// iterateAccounts calls fn for every stored account in key order until fn returns false.
func iterateAccounts(db dbm.DB, fn func(*ttptypes.AccountInfo) bool) error {
	end := append([]byte(nil), prefixAccount...)
	end[len(end)-1]++

	itr, err := db.Iterator(prefixAccount, end)
	if err != nil {
		return err
	}
	defer itr.Close()

	for ; itr.Valid(); itr.Next() {
		addr, err := ttptypes.AddressFromBytes(itr.Key()[len(prefixAccount):])
		if err != nil {
			return ttptypes.WrapCause(ErrInvalidAccountRecord, err)
		}
		info, err := decodeAccount(addr, itr.Value())
		if err != nil {
			return err
		}
		if !fn(info) {
			break
		}
	}
	return itr.Error()
}
