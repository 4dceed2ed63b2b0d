// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import "github.com/vechain/mineauction/builtin/reverts"

var (
	ErrUnauthorizedOwner = reverts.NewCode("OwnableUnauthorizedOwner(address)", reverts.Authorization)
	ErrInvalidOwner      = reverts.NewCode("OwnableInvalidOwner(address)", reverts.InvalidArgument)
	ErrOwnerSameValue    = reverts.NewCode("OwnableSameValueAlreadySet()", reverts.InvalidArgument)

	ErrUnauthorizedMinter = reverts.NewCode("MintableUnauthorizedMinter(address)", reverts.Authorization)
	ErrInvalidMinter      = reverts.NewCode("MintableInvalidMinter(address)", reverts.InvalidArgument)
	ErrMinterSameValue    = reverts.NewCode("MintableSameValueAlreadySet()", reverts.InvalidArgument)

	ErrUnauthorizedBurner = reverts.NewCode("BurnableUnauthorizedBurner(address)", reverts.Authorization)
	ErrInvalidTokenOwner  = reverts.NewCode("BurnableInvalidTokenOwner(address)", reverts.InvalidArgument)
	ErrBurnerSameValue    = reverts.NewCode("BurnableSameValueAlreadySet()", reverts.InvalidArgument)

	ErrEnforcedPause = reverts.NewCode("EnforcedPause()", reverts.TemporalMismatch)
	ErrExpectedPause = reverts.NewCode("ExpectedPause()", reverts.TemporalMismatch)

	ErrInvalidSender         = reverts.NewCode("ERC20InvalidSender(address)", reverts.InvalidArgument)
	ErrInvalidReceiver       = reverts.NewCode("ERC20InvalidReceiver(address)", reverts.InvalidArgument)
	ErrInvalidSpender        = reverts.NewCode("ERC20InvalidSpender(address)", reverts.InvalidArgument)
	ErrInsufficientBalance   = reverts.NewCode("ERC20InsufficientBalance(address,uint256,uint256)", reverts.ResourceExhausted)
	ErrInsufficientAllowance = reverts.NewCode("ERC20InsufficientAllowance(address,uint256,uint256)", reverts.ResourceExhausted)
	ErrSupplyCapExceeded     = reverts.NewCode("ERC20ExceededCap(uint256,uint256)", reverts.ResourceExhausted)
	ErrAmountOverflow        = reverts.NewCode("AmountOverflow()", reverts.ResourceExhausted)
)
